// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/dp16/internal"
)

// Predefined system equates
var sysEquate = map[string]int64{
	"PORT_INPUT":  int64(PORT_INPUT),
	"PORT_OUTPUT": int64(PORT_OUTPUT),
	"SP_INIT":     int64(SP_INIT),
}

// labelPattern is the syntax of label and equate names.
var labelPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Assembler is a single pass assembler with retroactive label resolution.
//
// Instructions are encoded as soon as they are parsed. A label used before
// it is defined is recorded in the Reference table, and every pending
// reference is patched in place when the label is defined.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Instruction []Instruction     // Emitted instructions, in address order.
	Label       map[string]uint16 // Map of labels to addresses.
	Reference   []Reference       // Forward label references, never pruned.
	Breakpoint  []Breakpoint      // Breakpoints, ordered by address.
	Equate      map[string]int64  // Map of equates.

	predefine map[string]int64 // Predefines
	errs      ErrAssembly      // Line errors of the current pass.
	lineno    int              // Line being parsed.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// currentPc gets the address of the next instruction to emit.
func (asm *Assembler) currentPc() uint16 {
	return uint16(len(asm.Instruction) * 2)
}

// fail records a line error.
func (asm *Assembler) fail(lineno int, line string, err error) {
	if asm.Verbose {
		logrus.WithField("line", lineno).Debugf("asm: %v", err)
	}
	asm.errs = append(asm.errs, ErrSyntax{LineNo: lineno, Line: line, Err: err})
}

// Parse assembles an input stream into a Program.
//
// Malformed lines do not stop the pass: every line error is collected and
// returned as an ErrAssembly along with the partial program. A program
// with errors must not be executed.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.Instruction = asm.Instruction[:0]
	asm.Reference = asm.Reference[:0]
	asm.Breakpoint = asm.Breakpoint[:0]
	asm.errs = nil
	if asm.Label == nil {
		asm.Label = make(map[string]uint16)
	}
	clear(asm.Label)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)

	asm.lineno = 0
	for scanner.Scan() {
		text := scanner.Text()
		asm.lineno += 1
		lineno := asm.lineno

		if asm.Verbose {
			logrus.WithField("line", lineno).Debugf("asm: %v", text)
		}

		lerr := asm.parseLine(text, lineno)
		if lerr != nil {
			asm.fail(lineno, strings.TrimSpace(text), lerr)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Every reference must have been resolved by now.
	for _, ref := range asm.Reference {
		_, ok := asm.Label[ref.Name]
		if !ok {
			asm.fail(ref.LineNo, asm.Instruction[ref.Pc/2].Text, ErrLabelMissing(ref.Name))
		}
	}

	if asm.Verbose {
		logrus.Debugf("asm: labels %v", pp.Sprint(asm.Label))
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instruction),
		Label:        maps.Clone(asm.Label),
		Reference:    slices.Clone(asm.Reference),
		Breakpoint:   slices.Clone(asm.Breakpoint),
	}

	if len(asm.errs) > 0 {
		slices.SortStableFunc(asm.errs, func(a, b error) int {
			return a.(ErrSyntax).LineNo - b.(ErrSyntax).LineNo
		})
		err = slices.Clone(asm.errs)
	}

	return
}

// stripComment removes a trailing // comment that is not inside a string.
func stripComment(line string) string {
	quoted := false
	for n := 0; n < len(line); n++ {
		switch {
		case line[n] == '"':
			quoted = !quoted
		case !quoted && strings.HasPrefix(line[n:], "//"):
			return line[:n]
		}
	}
	return line
}

// splitOperands splits an operand list on commas outside of parentheses.
func splitOperands(text string) (words []string) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}

	depth := 0
	start := 0
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				words = append(words, strings.TrimSpace(text[start:n]))
				start = n + 1
			}
		}
	}
	words = append(words, strings.TrimSpace(text[start:]))

	return
}

// expectOperands checks the operand count.
func expectOperands(words []string, count int) (err error) {
	switch {
	case len(words) < count:
		err = ErrCommaMissing
	case len(words) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseLine parses and emits a single line of source.
func (asm *Assembler) parseLine(text string, lineno int) (err error) {
	line := strings.TrimSpace(stripComment(text))
	if len(line) == 0 {
		return
	}

	if line[0] == ':' {
		return asm.defineLabel(strings.TrimSpace(line[1:]), lineno)
	}

	mnemonic, rest := line, ""
	if space := strings.IndexAny(line, " \t"); space >= 0 {
		mnemonic, rest = line[:space], strings.TrimSpace(line[space+1:])
	}

	switch mnemonic {
	case "pause":
		if len(rest) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		asm.addBreakpoint(Breakpoint{Pc: asm.currentPc(), LineNo: lineno})
		return
	case "debug":
		return asm.parseDebug(rest, lineno)
	case ".equ":
		return asm.parseEquate(rest)
	}

	op, ok := LookupOpcode(mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(asm.Instruction) >= MEMORY_SIZE/2 {
		err = ErrProgramTooLarge
		return
	}

	words := splitOperands(rest)

	var code Code
	switch op.Format() {
	case FORMAT_A:
		code, err = asm.parseFormatA(op, words)
	case FORMAT_B:
		code, err = asm.parseFormatB(op, words, lineno)
	case FORMAT_C:
		code, err = asm.parseFormatC(op, words)
	}
	if err != nil {
		return
	}

	asm.Instruction = append(asm.Instruction, Instruction{
		LineNo: lineno,
		Pc:     asm.currentPc(),
		Text:   line,
		Code:   code,
	})

	return
}

// addBreakpoint inserts a breakpoint, keeping the table ordered by address.
func (asm *Assembler) addBreakpoint(bp Breakpoint) {
	prog := Program{Breakpoint: asm.Breakpoint}
	prog.AddBreakpoint(bp)
	asm.Breakpoint = prog.Breakpoint
}

// labelValue is the immediate a format B instruction at pc uses for a label.
func labelValue(op Opcode, label uint16, pc uint16) int64 {
	if op == OP_BNZ {
		return int64(label) - int64(pc)
	}
	return int64(label)
}

// checkRange verifies an immediate fits in [min, max].
func checkRange(value int64, min, max int) (err error) {
	if value < int64(min) || value > int64(max) {
		err = ErrImmediateRange{Value: value, Min: min, Max: max}
	}
	return
}

// defineLabel defines a label at the current address and patches every
// pending reference to it.
func (asm *Assembler) defineLabel(name string, lineno int) (err error) {
	if !labelPattern.MatchString(name) {
		err = ErrLabelInvalid
		return
	}

	_, ok := asm.Label[name]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	_, ok = asm.Equate[name]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	pc := asm.currentPc()
	asm.Label[name] = pc

	for _, ref := range asm.Reference {
		if ref.Name != name {
			continue
		}
		ins := &asm.Instruction[ref.Pc/2]
		value := labelValue(ins.Code.Opcode(), pc, ref.Pc)
		rerr := checkRange(value, IMM_B_MIN, IMM_B_MAX)
		if rerr != nil {
			asm.fail(ref.LineNo, ins.Text, rerr)
			continue
		}
		ins.Code = ins.Code.WithImmediate(int(value))
		if asm.Verbose {
			logrus.WithFields(logrus.Fields{
				"label": name,
				"pc":    ref.Pc,
			}).Debugf("asm: patched %v", ins.Code)
		}
	}

	return
}

// parseEquate handles '.equ NAME VALUE'.
func (asm *Assembler) parseEquate(rest string) (err error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 || !labelPattern.MatchString(fields[0]) {
		err = ErrEquateSyntax
		return
	}
	name := fields[0]
	value := strings.TrimSpace(rest[len(name):])

	_, ok := asm.Equate[name]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	_, ok = asm.Label[name]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	v64, err := asm.valueOf(value)
	if err != nil {
		return
	}

	asm.Equate[name] = v64
	return
}

// parseDebug handles 'debug "template", reg...'.
func (asm *Assembler) parseDebug(rest string, lineno int) (err error) {
	if len(rest) == 0 || rest[0] != '"' {
		err = ErrDebugString
		return
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		err = ErrDebugString
		return
	}
	end++

	msg, err := ParseTemplate(rest[1:end])
	if err != nil {
		return
	}

	after := strings.TrimSpace(rest[end+1:])
	if len(msg.Verb) == 0 {
		if len(after) != 0 {
			err = ErrOpcodeExtraArgs
		}
	} else {
		if !strings.HasPrefix(after, ",") {
			err = ErrCommaMissing
			return
		}
		words := splitOperands(after[1:])
		err = expectOperands(words, len(msg.Verb))
		if err != nil {
			return
		}
		for _, word := range words {
			var reg int
			reg, err = ParseRegister(word)
			if err != nil {
				return
			}
			msg.Register = append(msg.Register, reg)
		}
	}
	if err != nil {
		return
	}

	asm.addBreakpoint(Breakpoint{Pc: asm.currentPc(), LineNo: lineno, Message: msg})
	return
}

// parseFormatA parses 'rd, rs1, rs2'.
func (asm *Assembler) parseFormatA(op Opcode, words []string) (code Code, err error) {
	err = expectOperands(words, 3)
	if err != nil {
		return
	}

	var regs [3]int
	for n, word := range words {
		regs[n], err = ParseRegister(word)
		if err != nil {
			return
		}
	}

	code = MakeCodeA(op, regs[0], regs[1], regs[2])
	return
}

// parseFormatB parses 'rd, imm' or 'rd, label'.
func (asm *Assembler) parseFormatB(op Opcode, words []string, lineno int) (code Code, err error) {
	err = expectOperands(words, 2)
	if err != nil {
		return
	}

	rd, err := ParseRegister(words[0])
	if err != nil {
		return
	}

	word := words[1]
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	imm, err := asm.valueOf(word)
	if _, is_number := err.(ErrParseNumber); is_number && labelPattern.MatchString(word) {
		err = nil
		pc := asm.currentPc()
		label, ok := asm.Label[word]
		if ok {
			imm = labelValue(op, label, pc)
		} else {
			// Patched when the label is defined.
			asm.Reference = append(asm.Reference, Reference{Pc: pc, Name: word, LineNo: lineno})
			imm = 0
		}
	}
	if err != nil {
		return
	}

	err = checkRange(imm, IMM_B_MIN, IMM_B_MAX)
	if err != nil {
		return
	}

	code = MakeCodeB(op, rd, int(imm))
	return
}

// parseFormatC parses 'rd, rs1+imm', 'rd, rs1-imm', or 'rd, rs1, imm'.
func (asm *Assembler) parseFormatC(op Opcode, words []string) (code Code, err error) {
	if len(words) == 2 {
		// Split 'rs1+imm' at the sign.
		offset := strings.IndexAny(words[1], "+-")
		if offset <= 0 {
			err = ErrOffsetMissing
			return
		}
		sign := words[1][offset : offset+1]
		value := strings.TrimSpace(words[1][offset+1:])
		if len(value) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		words = []string{words[0], strings.TrimSpace(words[1][:offset]), sign + value}
	}

	err = expectOperands(words, 3)
	if err != nil {
		return
	}

	rd, err := ParseRegister(words[0])
	if err != nil {
		return
	}

	rs1, err := ParseRegister(words[1])
	if err != nil {
		return
	}

	imm, err := asm.valueOf(words[2])
	if err != nil {
		return
	}

	err = checkRange(imm, IMM_C_MIN, IMM_C_MAX)
	if err != nil {
		return
	}

	code = MakeCodeC(op, rd, rs1, int(imm))
	return
}

// valueOf returns the value of a number, an equate, or a $(...) expression.
// A leading sign may precede an equate or expression.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	negate := false
	body := word
	switch {
	case strings.HasPrefix(body, "-"):
		negate = true
		body = strings.TrimSpace(body[1:])
	case strings.HasPrefix(body, "+"):
		body = strings.TrimSpace(body[1:])
	}

	equate, is_equate := asm.Equate[body]
	switch {
	case is_equate:
		value = equate
	case strings.HasPrefix(body, "$(") && strings.HasSuffix(body, ")"):
		value, err = asm.parenEval(body[2 : len(body)-1])
		if err != nil {
			return
		}
	default:
		value, err = strconv.ParseInt(body, 0, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
	}

	if negate {
		value = -value
	}

	return
}

// symbols returns the equates and defined labels visible to expressions.
func (asm *Assembler) symbols() starlark.StringDict {
	labels := internal.IterSeq2Map(maps.All(asm.Label), func(pc uint16) int64 { return int64(pc) })

	pred := starlark.StringDict{
		"PC":     starlark.MakeInt(int(asm.currentPc())),
		"LINENO": starlark.MakeInt(asm.lineno),
	}
	for key, value := range internal.IterSeq2Concat(maps.All(asm.Equate), labels) {
		pred[key] = starlark.MakeInt64(value)
	}

	return pred
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, asm.symbols())
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}
