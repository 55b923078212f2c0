// cmd/xcalc/main.go — interactive calculator
//
// Reads one command per line from stdin; type help for the command list.
//
// Usage:
//   go run ./cmd/xcalc -prompt "xcalc > " -max-iter 10000
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fuguenot/xcalc"
	"github.com/pkg/errors"
)

func main() {
	prompt := flag.String("prompt", "xcalc > ", "Prompt printed before each line")
	maxIter := flag.Int("max-iter", xcalc.DefaultSolveOptions().MaxIter, "Newton iteration cap (<= 0 for none)")
	debug := flag.Bool("debug", false, "Dump every parsed tree to stderr")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("xcalc: ")

	sess := xcalc.NewSession(xcalc.New(), xcalc.SolveOptions{MaxIter: *maxIter})
	if *debug {
		sess.Trace = os.Stderr
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(*prompt)
		if !scanner.Scan() {
			break
		}
		out, err := sess.Exec(scanner.Text())
		if errors.Is(err, xcalc.ErrQuit) {
			return
		}
		if err != nil {
			log.Printf("%v", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	fmt.Println()
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}
