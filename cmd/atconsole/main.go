// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

// atconsole is an interactive console for talking to an AT-command
// modem over a serial port. It serves as a worked example of the at
// package and as a manual debugging aid.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/quietmodem/atcore/at"
	"github.com/quietmodem/atcore/info"
	"github.com/quietmodem/atcore/serial"
	"github.com/quietmodem/atcore/trace"
)

var version = "undefined"

func main() {
	dev := flag.String("d", serial.DefaultPortName, "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 2*time.Second, "command timeout")
	verbose := flag.Bool("v", false, "log modem interactions")
	list := flag.Bool("list", false, "list available serial ports and exit")
	vsn := flag.Bool("version", false, "report version and exit")
	flag.Parse()

	if *vsn {
		fmt.Printf("%s %s\n", os.Args[0], version)
		return
	}
	if *list {
		ports, err := serial.ListPorts()
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	port, err := serial.Open(*dev, serial.WithBaud(*baud))
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	var rw io.ReadWriter = port
	if *verbose {
		rw = trace.New(rw, log.New(os.Stderr, "", log.LstdFlags))
	}

	urcHandler := func(line []byte) {
		fmt.Printf("URC: %s\n", line)
	}

	c := at.New(rw, at.WithTimeout(*timeout), at.WithURCHandler(urcHandler))

	fmt.Println("atconsole: type an AT command body (without the AT prefix), or 'quit'")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
		resp, err := c.Command(ctx, line)
		cancel()
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printResponse(line, resp)
		fmt.Println("OK")
	}
}

// printResponse prints resp one line at a time, stripping the command's
// own echoed info prefix (e.g. "+CSQ:") where present and splitting its
// comma-separated values, the way +CSQ/+COPS-style info lines are meant
// to be read rather than dumped as a raw string.
func printResponse(cmd, resp string) {
	if resp == "" {
		return
	}
	prefix := "+" + strings.TrimLeft(strings.ToUpper(cmd), "+")
	if idx := strings.IndexAny(prefix, "=?"); idx >= 0 {
		prefix = prefix[:idx]
	}
	for _, l := range strings.Split(resp, "\n") {
		if l == "" {
			continue
		}
		if info.HasPrefix(l, prefix) {
			values := info.ParseValues(info.TrimPrefix(l, prefix))
			fmt.Printf("%s: %s\n", prefix, strings.Join(values, ", "))
			continue
		}
		fmt.Println(l)
	}
}
