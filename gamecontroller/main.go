// Command gamecontroller checks match configurations, replays scripted
// matches and inspects their traces.
package main

import "github.com/ahasselbring/GameController-HL/gamecontroller/cmd"

func main() {
	cmd.Execute()
}
