package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/nyvia-projects/peerchat/internal/addr"
	"github.com/nyvia-projects/peerchat/internal/command"
	"github.com/nyvia-projects/peerchat/internal/config"
	"github.com/nyvia-projects/peerchat/internal/endpoint"
	"github.com/nyvia-projects/peerchat/internal/peers"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "peerchat <port>",
	Short: "Peer-to-peer TCP messaging from a terminal",
	Long: `Peerchat listens on one TCP port and manages a numbered table of
outbound connections to other peerchat processes. Everything is driven from
an interactive prompt: connect to peers, list them, send them raw text,
terminate them. Nothing is persisted and nothing is encrypted.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	port, err := addr.ParsePort(args[0])
	if err != nil {
		return err
	}

	var cfg config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if flagPeers, _ := cmd.Flags().GetStringSlice("peers"); len(flagPeers) > 0 {
		cfg.Peers = append(cfg.Peers, flagPeers...)
	}

	ep, err := endpoint.Listen(endpoint.Config{Port: port, IP: cfg.BindIP})
	if err != nil {
		return err
	}
	defer ep.Close()

	table := peers.NewTable(peers.Config{
		Local: addr.HostPort(ep.IP(), ep.Port()),
	})
	defer table.CloseAll()

	router := command.NewRouter(ep, table, os.Stdout)

	for _, p := range cfg.Peers {
		if err := dialStartupPeer(table, p); err != nil {
			log.Printf("startup peer %s: %v", p, err)
		}
	}

	fmt.Printf("peerchat listening on %s port %d\n", ep.IP(), ep.Port())
	fmt.Println(`type "help" for the list of commands`)

	// One line of input at a time, flowing from the reader goroutine into
	// the same loop that applies socket completions. Commands and socket
	// events never interleave: each runs to completion before the next is
	// taken.
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Print("> ")
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// stdin closed
				fmt.Println()
				return nil
			}
			if router.Dispatch(line) {
				return nil
			}
			fmt.Print("> ")
		case ev := <-table.Events():
			table.Apply(ev)
		}
	}
}

// dialStartupPeer feeds one configured ip:port through the same validated
// add path the connect command uses.
func dialStartupPeer(table *peers.Table, hostport string) error {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return fmt.Errorf("want ip:port, got %q", hostport)
	}
	port, err := addr.ParsePort(portStr)
	if err != nil {
		return err
	}
	_, err = table.Add(host, port)
	return err
}

func init() {
	rootCmd.Flags().String("config", "", "Path to a YAML startup file")
	rootCmd.Flags().StringSlice("peers", nil, "Peer addresses (ip:port) to connect at startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
