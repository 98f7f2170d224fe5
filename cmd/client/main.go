package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Matches1st/Cord-Disc-Chat/internal/client"
	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	"github.com/Matches1st/Cord-Disc-Chat/internal/session"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	username  string
	password  string
	asGuest   bool
)

func main() {
	sess := session.NewStore()
	var api *client.API

	rootCmd := &cobra.Command{
		Use:   "cord-disc",
		Short: "Terminal client for the Cord Disc chat server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api = client.NewAPI(serverURL, sess)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "chat server base URL")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "username (required)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "password, omit with --guest")
	rootCmd.PersistentFlags().BoolVar(&asGuest, "guest", false, "open a guest session instead of logging in")
	rootCmd.MarkPersistentFlagRequired("username")

	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "List joined rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			rooms, err := api.ListRooms(ctx)
			if err != nil {
				return err
			}
			if len(rooms.Rooms) == 0 {
				fmt.Println("no rooms joined yet")
				return nil
			}
			for _, room := range rooms.Rooms {
				fmt.Printf("%s  %-20s  %d member(s)\n", room.Code, room.Name, len(room.MemberIDs))
			}
			return nil
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a room and print its invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			room, err := api.CreateRoom(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created %q, invite code: %s\n", room.Name, room.Code)
			return nil
		},
	}

	joinCmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room by invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			room, err := api.JoinRoom(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("joined %q (%s)\n", room.Name, room.Code)
			return nil
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat <code>",
		Short: "Open a room and chat interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			return runChat(ctx, api, strings.ToUpper(args[0]))
		},
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the profile",
	}
	profileCmd.AddCommand(&cobra.Command{
		Use:   "name <display-name>",
		Short: "Change the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			return api.UpdateDisplayName(ctx, args[0])
		},
	})
	profileCmd.AddCommand(&cobra.Command{
		Use:   "theme <color>",
		Short: "Change the chat theme color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := signIn(ctx, api); err != nil {
				return err
			}
			if !entity.ValidTheme(args[0]) {
				return fmt.Errorf("unknown theme %q, pick one of: %s", args[0], strings.Join(entity.Themes, ", "))
			}
			return api.UpdateTheme(ctx, args[0])
		},
	})

	rootCmd.AddCommand(roomsCmd, createCmd, joinCmd, chatCmd, profileCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signIn opens the session named by the flags: guest handle or
// credentials. Unknown credentialed usernames are registered on the fly.
func signIn(ctx context.Context, api *client.API) error {
	if asGuest {
		_, err := api.Guest(ctx, username)
		return err
	}
	if password == "" {
		return fmt.Errorf("either --password or --guest is required")
	}
	if _, err := api.Login(ctx, username, password); err == nil {
		return nil
	}
	_, err := api.Register(ctx, username, password)
	return err
}

func runChat(ctx context.Context, api *client.API, roomCode string) error {
	room, err := api.OpenRoom(ctx, roomCode)
	if err != nil {
		return err
	}
	defer room.Close()

	fmt.Printf("connected to %s — /older loads history, /who lists members, /file sends one, /quit leaves\n", roomCode)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-room.Incoming:
				printEvent(event)
			}
		}
	}()

	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/older":
			more, err := room.LoadOlder(ctx)
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			for _, e := range room.Feed.Entries() {
				printMessage(e.MessageResponse)
			}
			if !more {
				fmt.Println("-- start of history --")
			}
		case line == "/who":
			roster, err := room.Roster(ctx)
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			for _, member := range roster.Members {
				marker := " "
				if member.Online {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, member.Username)
			}
		case strings.HasPrefix(line, "/file "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/file "))
			f, err := os.Open(path)
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			_, err = api.SendFile(ctx, roomCode, filepath.Base(path), f)
			f.Close()
			if err != nil {
				fmt.Printf("! %v\n", err)
			}
		default:
			if err := room.Send(ctx, line); err != nil {
				fmt.Printf("! send failed: %v\n", err)
			}
		}
	}
}

func printEvent(event chat_dto.Event) {
	switch event.Type {
	case chat_dto.EventSnapshot:
		for _, msg := range event.Messages {
			printMessage(msg)
		}
	case chat_dto.EventMessage:
		if event.Message != nil {
			printMessage(*event.Message)
		}
	}
}

func printMessage(msg chat_dto.MessageResponse) {
	body := msg.Text
	if body == "" && msg.FileURL != "" {
		body = "[file] " + msg.FileURL
	}
	fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Local().Format(time.Kitchen), msg.Username, body)
}
