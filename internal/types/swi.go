package types

type SWIFunction struct {
	CName       string `json:"c-name"`
	Entry       string `json:"entry"`
	AsmFunction string `json:"asm-function,omitempty"`
}

type SWIFileReport struct {
	File      string        `json:"file"`
	Functions []SWIFunction `json:"functions"`
}

type JumpTableEntry struct {
	Index  int
	Symbol string
}
