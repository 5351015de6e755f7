// Package api exposes a robot.Manager over HTTP so other programs (a phone
// remote, a script, a dashboard) can drive the robot through hexctl.
//
// Routes:
//
//	GET  /state            current connection state
//	GET  /battery          last known battery status (null when unknown)
//	POST /connect          connect to {"address","port"} or the saved endpoint
//	POST /disconnect       tear down the connection
//	POST /press/:command   start repeating a motion command
//	POST /release          stop the repeating command
//	POST /send/:command    send one command
//	POST /battery/refresh  query battery now
//	GET  /events           server-sent "state" and "battery" events
package api
