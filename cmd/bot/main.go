package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/palemoky/rps-cards/internal/client"
	"github.com/palemoky/rps-cards/internal/game/card"
	"github.com/palemoky/rps-cards/internal/protocol"
	"github.com/palemoky/rps-cards/internal/protocol/codec"
)

type options struct {
	server string
	codec  string
	name   string
	lobby  string
	join   bool
	delay  time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "rps-bot",
		Short:         "Headless player that plays random cards, for smoke testing a server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.server, "server", "s", "ws://localhost:3000/ws", "server websocket url")
	fs.StringVar(&opts.codec, "codec", "json", "frame codec: json or proto")
	fs.StringVarP(&opts.name, "name", "n", "", "display name, random when empty")
	fs.StringVarP(&opts.lobby, "lobby", "l", "", "lobby name, random when empty")
	fs.BoolVarP(&opts.join, "join", "j", false, "join the lobby instead of creating it")
	fs.DurationVar(&opts.delay, "delay", 300*time.Millisecond, "think time before each play")

	cobra.CheckErr(cmd.ExecuteContext(ctx))
}

func run(ctx context.Context, opts *options) error {
	if opts.name == "" {
		opts.name = client.GenerateNickname()
	}
	if opts.lobby == "" {
		if opts.join {
			return errors.New("--join requires --lobby")
		}
		opts.lobby = client.GenerateLobbyName()
	}

	c := client.NewClient(opts.server, codec.ByName(opts.codec))
	if err := c.Connect(); err != nil {
		return fmt.Errorf("连接服务器失败: %w", err)
	}
	defer c.Close()

	if err := c.AnnounceIdentity(opts.name); err != nil {
		return err
	}
	if opts.join {
		if err := c.JoinLobby(opts.lobby); err != nil {
			return err
		}
		log.Printf("🤖 %s 加入房间 %s", opts.name, opts.lobby)
	} else {
		if err := c.CreateLobby(opts.lobby); err != nil {
			return err
		}
		log.Printf("🤖 %s 创建房间 %s，等待对手...", opts.name, opts.lobby)
	}

	state := client.NewMatchState()
	for {
		msg, err := c.ReceiveWithTimeout(time.Second)
		if errors.Is(err, client.ErrTimeout) {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if err != nil {
			return err
		}
		if !state.Apply(msg) {
			continue
		}

		switch {
		case msg.Type == protocol.MsgGameStart:
			log.Printf("🎮 对局开始，座位 %d，对手 %q，手牌 %s", state.Seat, state.OpponentName, card.FormatHand(state.Hand))
		case msg.Type == protocol.MsgRoundResult:
			r := state.Rounds[len(state.Rounds)-1]
			log.Printf("⚔️ 第 %d 轮: %s vs %s (%d:%d)", len(state.Rounds), r.CardA, r.CardB, state.Wins, state.Losses)
		case state.Over:
			log.Printf("🏁 对局结束，胜 %d 负 %d 平 %d", state.Wins, state.Losses, len(state.Rounds)-state.Wins-state.Losses)
			return nil
		case state.OpponentLeft:
			log.Println("👋 对手已离开")
			return nil
		}

		if state.MyTurn() {
			if err := play(ctx, c, state, opts.delay); err != nil {
				return err
			}
		}
	}
}

func play(ctx context.Context, c *client.Client, state *client.MatchState, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(delay):
	}

	hand := state.Playable()
	if len(hand) == 0 {
		return nil
	}
	v := hand[rand.IntN(len(hand))]
	if err := c.PlayCard(state.LobbyName, v); err != nil {
		return err
	}
	state.MarkPlayed(v)
	return nil
}
