package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"SprayBoard/internal/config"
	"SprayBoard/internal/engine"
	"SprayBoard/internal/export"
	"SprayBoard/internal/net"
	"SprayBoard/internal/paint"
	"SprayBoard/internal/ui"
)

const (
	CustomURLScheme = "localboard://"
	browseTimeout   = 3 * time.Second
)

func main() {
	cfg, err := config.Load(config.Dir())
	if err != nil {
		log.Printf("Using default config: %v", err)
	}

	args := os.Args
	if len(args) > 1 && strings.HasPrefix(args[1], CustomURLScheme) {
		runClient(cfg, args[1])
	} else {
		runHost(cfg)
	}
}

func runHost(cfg config.Config) {
	log.Println("Starting as HOST")
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	eng := engine.New(cfg, paint.NewRandom(seed))
	if cfg.Background != "" {
		if bg, err := export.LoadBackground(cfg.Background); err != nil {
			log.Printf("Background ignored: %v", err)
		} else {
			eng.SetBackground(bg)
		}
	}

	board := ui.NewBoardWidget(eng)
	hub := net.NewHub()

	// Remote brushes drive the same engine as the local pointer.
	hub.OnMessage = func(addr string, msg net.Message) {
		switch msg.Type {
		case net.MsgPointer:
			if msg.Pointer != nil {
				board.ApplyRemote(*msg.Pointer)
			}
		case net.MsgColor:
			board.SetColor(msg.Color)
		case net.MsgUndo:
			board.Async(board.Undo)
		case net.MsgClear:
			board.Async(board.Clear)
		default:
			log.Printf("[HOST] Ignoring '%s' from %s", msg.Type, addr)
		}
	}
	hub.OnJoin = func(string) []net.Message {
		s := board.Signals()
		return []net.Message{{Type: net.MsgStatus, Status: &s}}
	}
	board.Subscribe(func(s engine.Signals) {
		hub.Broadcast(net.Message{Type: net.MsgStatus, Status: &s})
	})
	board.OnSettle = func() {
		if hub.Len() == 0 {
			return
		}
		data, err := board.Export()
		if err != nil && !errors.Is(err, engine.ErrNothingPainted) {
			log.Printf("[HOST] Preview failed: %v", err)
			return
		}
		hub.Broadcast(net.Message{Type: net.MsgPreview, Preview: data})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := hub.ListenAndServe(ctx, cfg.Port); err != nil {
			board.SetStatus(fmt.Sprintf("Relay unavailable: %v", err))
		}
	}()

	if cfg.Advertise {
		server, err := net.Advertise(cfg.Port)
		if err != nil {
			log.Printf("mDNS disabled: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	shareLink := fmt.Sprintf("%s%s:%d", CustomURLScheme, net.OutgoingIP(), cfg.Port)
	ui.RunApp(board, cfg.BrushSize, shareLink)
}

func runClient(cfg config.Config, link string) {
	log.Println("Starting as CLIENT")
	board := ui.NewRemoteBoard(cfg.Width, cfg.Height)
	go connectToHost(link, board)
	ui.RunApp(board, cfg.BrushSize, "")
}

func connectToHost(link string, board *ui.BoardWidget) {
	address := strings.TrimSuffix(strings.TrimPrefix(link, CustomURLScheme), "/")
	time.Sleep(500 * time.Millisecond) // Give UI time to launch

	if address == "" {
		board.SetStatus("Looking for a host...")
		found, err := net.Browse(browseTimeout)
		if err != nil {
			board.SetStatus(fmt.Sprintf("Discovery failed: %v", err))
			return
		}
		address = found
	}

	client, err := net.Dial(address)
	if err != nil {
		board.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer client.Close()
	board.SetStatus("Connected to host as " + client.LocalAddr())
	log.Println("Client connected successfully as", client.LocalAddr())

	send := func(msg net.Message) {
		if err := client.Send(msg); err != nil {
			log.Printf("Failed to send %s: %v", msg.Type, err)
		}
	}
	board.OnPointer = func(ev engine.PointerEvent) { send(net.Message{Type: net.MsgPointer, Pointer: &ev}) }
	board.OnColor = func(spec string) { send(net.Message{Type: net.MsgColor, Color: spec}) }
	board.OnUndo = func() { send(net.Message{Type: net.MsgUndo}) }
	board.OnClear = func() { send(net.Message{Type: net.MsgClear}) }

	err = client.Listen(func(msg net.Message) {
		switch msg.Type {
		case net.MsgStatus:
			if msg.Status != nil {
				board.SetRemoteSignals(*msg.Status)
			}
		case net.MsgPreview:
			board.SetPreview(msg.Preview)
		}
	})
	board.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
}
