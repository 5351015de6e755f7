// Package cli implements the hexctl command-line interface.
//
// Each Cobra command is a thin wrapper: it loads settings, builds the pieces
// it needs from internal packages, and renders the result.
//
// # Command Structure
//
//	hexctl drive              - Full-screen keyboard control
//	hexctl send <command>...  - Send one or more commands and exit
//	hexctl battery            - Query battery level
//	hexctl status             - Check the robot is reachable
//	hexctl doctor             - Diagnose config and connectivity
//	hexctl init               - Save the robot's address and port
//	hexctl config show|set    - Inspect or edit config.yaml
//	hexctl serve              - Run the HTTP bridge
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color, --json) live on the root
// command. The endpoint flags (--address, --port, --target) are shared by
// every command that talks to the robot, through EndpointFlags.
package cli
