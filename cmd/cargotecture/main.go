package main

import "github.com/cameronsjo/cargotecture/internal/cmd"

func main() {
	cmd.Execute()
}
