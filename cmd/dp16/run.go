package main

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/dp16/cpu"
	"github.com/ezrec/dp16/emulator"
	"github.com/ezrec/dp16/translate"
)

var runDebug bool
var runPause bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run sourceFile [a0 [a1 [a2]]]",
	Short: "Assemble and run a program",
	Long: `Run assembles the source file, or loads a .hex image, and executes it
until it stores to the output port or halts in a self loop. Up to three
integer arguments are placed in registers a0, a1 and a2.
`,
	Args: cobra.RangeArgs(1, 1+emulator.ARGS_MAX),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var regs []int16
		for _, arg := range args[1:] {
			var value int64
			value, err = strconv.ParseInt(arg, 0, 16)
			if err != nil {
				return
			}
			regs = append(regs, int16(value))
		}

		prog, err := loadProgram(args[0])
		if err != nil {
			return
		}

		emu := emulator.NewEmulator()
		emu.Program = prog
		emu.Verbose = verbose
		emu.Debug = runDebug
		emu.Input.Input = os.Stdin
		emu.Input.Prompt = os.Stdout
		emu.Output.Output = os.Stdout
		if runPause {
			emu.Pause = func(bp *cpu.Breakpoint) {
				translate.Fprintf(os.Stderr, "paused at line %d, press enter to continue", bp.LineNo)
				werr := emu.Input.Wait()
				if werr != nil {
					logrus.Warnf("dp16: pause: %v", werr)
				}
			}
		}

		err = emu.Reset(regs...)
		if err != nil {
			return
		}

		err = emu.Run()
		if err != nil {
			return
		}

		if !emu.Exited() {
			err = emu.Output.Printf("halted at 0x%04X\ncycles: %d\n", emu.Cpu.Pc, emu.Ticks())
		}

		return
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Trace each executed instruction")
	runCmd.Flags().BoolVarP(&runPause, "pause", "p", false, "Wait for enter at pause statements")
	rootCmd.AddCommand(runCmd)
}
