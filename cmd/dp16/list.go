package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listRaw bool
var listMachine bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list sourceFile",
	Short: "Print the address listing of a program",
	Long: `List prints each instruction address of the program with its
disassembly (-r), its machine code in binary (-m), or both.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := loadProgram(args[0])
		if err != nil {
			return
		}

		raw, machine := listRaw, listMachine
		if !raw && !machine {
			raw, machine = true, true
		}

		err = prog.WriteListing(os.Stdout, raw, machine)
		return
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listRaw, "raw", "r", false, "Show the disassembly")
	listCmd.Flags().BoolVarP(&listMachine, "machine", "m", false, "Show the machine code")
	rootCmd.AddCommand(listCmd)
}
