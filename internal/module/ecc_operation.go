package module

// ECCOperation names a transition command an ECC driver can be told to
// carry out. It doubles as the SOAP operation tag placed in the
// request envelope (see internal/eccdriver).
type ECCOperation int

const (
	OpDescribe ECCOperation = iota
	OpPrepare
	OpConfigure
	OpStart
	OpUndo
	OpBreakup
	OpStop
	OpInvalid
)

var eccOperationText = map[ECCOperation]string{
	OpDescribe:  "Describe",
	OpPrepare:   "Prepare",
	OpConfigure: "Configure",
	OpStart:     "Start",
	OpUndo:      "Undo",
	OpBreakup:   "Breakup",
	OpStop:      "Stop",
	OpInvalid:   "Invalid",
}

func (o ECCOperation) String() string {
	if text, ok := eccOperationText[o]; ok {
		return text
	}
	return "Invalid"
}

// ParseECCOperation recovers an ECCOperation from its wire text, the
// inverse of String().
func ParseECCOperation(text string) ECCOperation {
	for op, s := range eccOperationText {
		if s == text {
			return op
		}
	}
	return OpInvalid
}
