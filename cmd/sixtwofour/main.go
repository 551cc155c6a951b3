// Command sixtwofour loads a flat binary image into memory and runs the
// CPU against it, printing a styled register dump when the run stops.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/urfave/cli.v2"

	"github.com/nrgallagher/sixtwofour/cpu"
	"github.com/nrgallagher/sixtwofour/memory"
)

var (
	registerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	haltStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
)

func main() {
	app := &cli.App{
		Name:    "sixtwofour",
		Usage:   "run a 6502 program image to completion or a cycle budget",
		Version: "v0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "path to a raw or hex-encoded program image",
			},
			&cli.StringFlag{
				Name:  "load",
				Value: "0x0000",
				Usage: "address the image is loaded at",
			},
			&cli.StringFlag{
				Name:  "start",
				Value: "",
				Usage: "entry point address; defaults to the load address",
			},
			&cli.Uint64Flag{
				Name:  "cycles",
				Value: 10000,
				Usage: "cycle budget before the run stops",
			},
			&cli.BoolFlag{
				Name:  "hex",
				Usage: "treat the image file as hex text rather than raw bytes",
			},
			&cli.StringFlag{
				Name:  "illegal",
				Value: "halt",
				Usage: "policy for undocumented opcodes: halt, nop, panic",
			},
			&cli.StringFlag{
				Name:  "decimal",
				Value: "nmos",
				Usage: "decimal-mode N/Z policy: nmos or cmos",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, haltStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	imagePath := c.String("image")
	if imagePath == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("", 86)
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading image: %v", err), 1)
	}
	if c.Bool("hex") {
		raw, err = hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return cli.Exit(fmt.Sprintf("decoding hex image: %v", err), 1)
		}
	}

	loadAddr, err := parseAddr(c.String("load"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("parsing --load: %v", err), 1)
	}
	startAddr := loadAddr
	if s := c.String("start"); s != "" {
		startAddr, err = parseAddr(s)
		if err != nil {
			return cli.Exit(fmt.Sprintf("parsing --start: %v", err), 1)
		}
	}

	illegalPolicy, err := parseIllegalPolicy(c.String("illegal"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	decimalPolicy, err := parseDecimalPolicy(c.String("decimal"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	mem := memory.New()
	for i, b := range raw {
		mem.Write(loadAddr+uint16(i), b)
	}
	mem.WriteWord(cpu.ResetVector, startAddr)

	chip, err := cpu.New(cpu.Config{
		Ram:           mem,
		IllegalPolicy: illegalPolicy,
		DecimalPolicy: decimalPolicy,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("constructing CPU: %v", err), 1)
	}

	result, runErr := chip.Run(c.Uint64("cycles"))
	printState(chip, result, runErr)

	switch result {
	case cpu.RunHaltedIllegal:
		return cli.Exit("", 2)
	default:
		return nil
	}
}

func printState(c *cpu.CPU, result cpu.RunResult, runErr error) {
	label := okStyle.Render(result.String())
	if result == cpu.RunHaltedIllegal {
		label = haltStyle.Render(result.String())
	}
	fmt.Printf("%s %s\n", registerStyle.Render("sixtwofour"), label)
	fmt.Printf(
		"A=%.2X X=%.2X Y=%.2X SP=%.2X PC=%.4X P=%.2X cycles=%d\n",
		c.A, c.X, c.Y, c.SP, c.PC, c.Status(), c.Cycles(),
	)
	if runErr != nil {
		fmt.Println(haltStyle.Render(runErr.Error()))
	}
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func parseIllegalPolicy(s string) (cpu.IllegalPolicy, error) {
	switch strings.ToLower(s) {
	case "halt", "":
		return cpu.IllegalHalt, nil
	case "nop":
		return cpu.IllegalTreatAsNOP, nil
	case "panic":
		return cpu.IllegalPanic, nil
	default:
		return 0, fmt.Errorf("unknown --illegal policy %q", s)
	}
}

func parseDecimalPolicy(s string) (cpu.DecimalPolicy, error) {
	switch strings.ToLower(s) {
	case "nmos", "":
		return cpu.DecimalNMOS, nil
	case "cmos":
		return cpu.DecimalCMOS, nil
	default:
		return 0, fmt.Errorf("unknown --decimal policy %q", s)
	}
}
