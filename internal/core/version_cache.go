package core

import (
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

// versionCache memoizes parsed version objects. Conda pins are compared
// with Debian ordering, pip pins with PEP 440 semantics.
type versionCache struct {
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb:  map[string]debversion.Version{},
		pep:  map[string]pep440.Version{},
		spec: map[string]pep440.Specifiers{},
	}
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepSpec(value string) (pep440.Specifiers, error) {
	if parsed, ok := c.spec[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.spec[value] = parsed
	return parsed, nil
}

// sameCondaVersion compares two conda versions. Unparsable versions fall
// back to string equality.
func (c *versionCache) sameCondaVersion(a string, b string) bool {
	v1, err := c.debVersion(a)
	if err != nil {
		return a == b
	}
	v2, err := c.debVersion(b)
	if err != nil {
		return a == b
	}
	return v1.Equal(v2)
}

// satisfiesPip reports whether installed satisfies a PEP 440 specifier set.
func (c *versionCache) satisfiesPip(installed string, specifier string) (bool, error) {
	version, err := c.pepVersion(installed)
	if err != nil {
		return false, err
	}
	spec, err := c.pepSpec(specifier)
	if err != nil {
		return false, err
	}
	return spec.Check(version), nil
}
