package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rocketscienceinc/tictactoe-api/internal/client"
	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const usage = `usage: tictactoe-cli [-addr URL] <command>

commands:
  state            show the board
  move ROW COL     place the current player's mark (0-2)
  restart          start a new game
`

func main() {
	addr := flag.String("addr", "http://localhost:9090", "game API base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, client.New(*addr, nil), flag.Args()); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	var (
		state entity.Snapshot
		err   error
	)

	switch args[0] {
	case "state":
		state, err = api.State(ctx)
	case "restart":
		state, err = api.Restart(ctx)
	case "move":
		if len(args) != 3 {
			return errors.New("move needs ROW and COL")
		}

		row, rowErr := strconv.Atoi(args[1])
		col, colErr := strconv.Atoi(args[2])
		if rowErr != nil || colErr != nil {
			return fmt.Errorf("invalid coordinates %q %q", args[1], args[2])
		}

		state, err = api.Move(ctx, row, col)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		return err
	}

	return client.NewRenderer(os.Stdout).Render(state)
}
