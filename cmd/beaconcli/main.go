package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[beaconcli] %v\n", err)
	os.Exit(1)
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Printf("%s\n", jsonBytes)
}

func main() {
	app := cli.NewApp()
	app.Name = "beaconcli"
	app.Usage = "Control plane for the Beacon Committee Daemon (beacond)."
	app.Commands = append(app.Commands, daemonCommands...)
	app.Commands = append(app.Commands, memberCommands...)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
