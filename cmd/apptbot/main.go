package main

import "github.com/OblivionBC/AppointmentBot/cmd"

func main() {
	cmd.Execute()
}
