package main

import "github.com/kusitms-com/meetupd/cmd"

func main() {
	cmd.Execute()
}
