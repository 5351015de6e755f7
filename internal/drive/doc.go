// Package drive is the interactive terminal controller for the robot.
//
// Terminals report key presses but not releases, so a motion key counts as
// held for as long as auto-repeat keeps delivering it: each press (re)arms a
// release timer, and the held command is released once the timer fires
// without a newer press. Discrete actions and gait changes are sent once.
package drive
