package byteio

import "strconv"

var c0Names = [32]string{
	"<NUL>", "<SOH>", "<STX>", "<ETX>", "<EOT>", "<ENQ>", "<ACK>", "<BEL>",
	"<BS>", "<HT>", "<NL>", "<VT>", "<NP>", "<CR>", "<SO>", "<SI>",
	"<DLE>", "<DC1>", "<DC2>", "<DC3>", "<DC4>", "<NAK>", "<SYN>", "<ETB>",
	"<CAN>", "<EM>", "<SUB>", "<ESC>", "<FS>", "<GS>", "<RS>", "<US>",
}

// CaretForm computes the ^-escaped printable form of a C0 control byte, or
// returns the empty string for any other byte.
func CaretForm(b byte) string {
	if b < 0x20 || b == 0x7f {
		return "^" + string(rune(b^0x40))
	}
	return ""
}

// Name returns a printable mnemonic for any input byte: the classic ASCII
// control names like <NL>, <SP> and <DEL>, the quoted character for
// printable ASCII, and a hex escape otherwise. Negative values name the end
// of input.
func Name(c int) string {
	switch {
	case c < 0:
		return "<EOF>"
	case c < 0x20:
		return c0Names[c]
	case c == 0x20:
		return "<SP>"
	case c == 0x7f:
		return "<DEL>"
	case c < 0x80:
		return strconv.QuoteRune(rune(c))
	default:
		return "'\\x" + strconv.FormatUint(uint64(c), 16) + "'"
	}
}
