package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteHex writes one 4-digit uppercase hex word per line.
func WriteHex(w io.Writer, words []uint16) (err error) {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		_, err = fmt.Fprintf(bw, "%04X\n", word)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// ReadHex reads a hex image written by WriteHex. Blank lines and
// '#' or '//' comments are ignored.
func ReadHex(r io.Reader) (words []uint16, err error) {
	scanner := bufio.NewScanner(r)

	var lineno int
	for scanner.Scan() {
		lineno++
		text := scanner.Text()
		line := text
		if index := strings.Index(line, "#"); index >= 0 {
			line = line[:index]
		}
		if index := strings.Index(line, "//"); index >= 0 {
			line = line[:index]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		line = strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X")
		word, perr := strconv.ParseUint(line, 16, 16)
		if perr != nil {
			err = ErrHexSyntax{LineNo: lineno, Line: text}
			return
		}
		words = append(words, uint16(word))
	}

	err = scanner.Err()
	return
}
