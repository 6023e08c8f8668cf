package cpu

import (
	"fmt"
	"strings"
)

const (
	DEBUG_REGISTERS_MAX = 6 // Maximum substitutions in a debug message.
)

// Message is a debug message template. Text holds the literal segments
// surrounding each verb, so len(Text) == len(Verb)+1. Register holds the
// register index bound to each verb.
type Message struct {
	Text     []string
	Verb     []string
	Register []int
}

// ParseTemplate splits a printf-style template into literal text and verbs.
//
// A verb is '%', optional flags from "-+ #0", an optional width, an optional
// precision, optional 'h' or 'l' length modifiers, and one of the conversions
// d, i, u, x, X, o, b or c. "%%" is a literal percent sign.
func ParseTemplate(template string) (msg *Message, err error) {
	msg = &Message{}

	var text strings.Builder
	for n := 0; n < len(template); n++ {
		c := template[n]
		if c != '%' {
			text.WriteByte(c)
			continue
		}
		if n+1 < len(template) && template[n+1] == '%' {
			text.WriteByte('%')
			n++
			continue
		}

		start := n
		n++
		for n < len(template) && strings.IndexByte("-+ #0", template[n]) >= 0 {
			n++
		}
		for n < len(template) && template[n] >= '0' && template[n] <= '9' {
			n++
		}
		if n < len(template) && template[n] == '.' {
			n++
			for n < len(template) && template[n] >= '0' && template[n] <= '9' {
				n++
			}
		}
		format := template[start:n]
		for n < len(template) && (template[n] == 'h' || template[n] == 'l') {
			n++
		}
		if n >= len(template) {
			err = ErrDebugVerb(template[start:])
			return
		}

		var verb string
		switch conv := template[n]; conv {
		case 'd', 'i':
			verb = format + "d"
		case 'u':
			verb = format + "u"
		case 'x', 'X', 'o', 'b', 'c':
			verb = format + string(conv)
		default:
			err = ErrDebugVerb(template[start : n+1])
			return
		}

		msg.Text = append(msg.Text, text.String())
		msg.Verb = append(msg.Verb, verb)
		text.Reset()
	}
	msg.Text = append(msg.Text, text.String())

	if len(msg.Verb) > DEBUG_REGISTERS_MAX {
		err = ErrDebugRegisters
		return
	}

	return
}

// Render substitutes the bound register values into the template.
func (msg *Message) Render(regs [REGISTER_COUNT]int16) string {
	var out strings.Builder

	for n, verb := range msg.Verb {
		out.WriteString(msg.Text[n])

		var value int16
		if n < len(msg.Register) {
			value = regs[msg.Register[n]&0xf]
		}

		switch verb[len(verb)-1] {
		case 'u':
			fmt.Fprintf(&out, verb[:len(verb)-1]+"d", uint16(value))
		case 'c':
			fmt.Fprintf(&out, verb, rune(uint16(value)))
		case 'x', 'X', 'o', 'b':
			// Promoted to a 32-bit int, as a C printf would see it.
			fmt.Fprintf(&out, verb, uint32(int32(value)))
		default:
			fmt.Fprintf(&out, verb, int(value))
		}
	}
	out.WriteString(msg.Text[len(msg.Text)-1])

	return out.String()
}

// Breakpoint is a program address where execution triggers a diagnostic.
type Breakpoint struct {
	Pc      uint16   // Address of the instruction following the breakpoint.
	LineNo  int      // Source line of the pause or debug statement.
	Message *Message // Message to print, nil for a plain pause.
}
