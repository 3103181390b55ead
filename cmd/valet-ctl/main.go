package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"valet/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) < 2 || args[0] != "say" {
		fmt.Println("usage: valet-ctl [--socket path] say <utterance>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: "say", Text: strings.Join(args[1:], " ")}
	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Println("valet-daemon not running:", err)
		os.Exit(1)
	}
}
