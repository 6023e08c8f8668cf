package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/dp16/io"
)

var hexOutput string

// hexCmd represents the hex command
var hexCmd = &cobra.Command{
	Use:   "hex sourceFile",
	Short: "Write the assembled program as a hex image",
	Long: `Hex assembles the source file and writes one four digit hexadecimal
word per line to the output file, by default the source file name with
a .hex extension. The image can be run again with 'dp16 run'.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := loadProgram(args[0])
		if err != nil {
			return
		}

		name := hexOutput
		if len(name) == 0 {
			name = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".hex"
		}

		outf, err := os.Create(name)
		if err != nil {
			return
		}

		err = io.WriteHex(outf, prog.Words())
		cerr := outf.Close()
		if err == nil {
			err = cerr
		}
		if err != nil {
			return
		}

		fmt.Printf("%v generated\n", name)
		return
	},
}

func init() {
	hexCmd.Flags().StringVarP(&hexOutput, "output", "o", "", "Output file")
	rootCmd.AddCommand(hexCmd)
}
