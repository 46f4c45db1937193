package main

import "github.com/KaramelBytes/healthsurvey-cli/cmd"

func main() {
	cmd.Execute()
}
