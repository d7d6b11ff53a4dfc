// Command wall drives the greetings wall from a terminal: browse the
// paginated card list or run the full submission flow against the proxy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/emiliodom/greetings-wall/internal/client"
	"github.com/emiliodom/greetings-wall/internal/config"
	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/log"
	"github.com/emiliodom/greetings-wall/internal/wall"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: wall [-config file] <command>

commands:
  list    -page N                         show one page of the wall
  presets                                 print the preset messages
  submit  -message TEXT -feeling EMOJI -country CC -token CAPTCHA
`)
	os.Exit(2)
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file (optional)")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	if _, err := log.Init(false); err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	cfg, err := config.LoadWall(*cfgPath)
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	session := wall.NewSession(cfg)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		pageNum := fs.Int("page", 1, "page number")
		_ = fs.Parse(flag.Args()[1:])
		runList(ctx, session, *pageNum)
	case "presets":
		for i, m := range domain.PresetMessages {
			fmt.Printf("%2d. %s\n", i+1, m)
		}
	case "submit":
		fs := flag.NewFlagSet("submit", flag.ExitOnError)
		message := fs.String("message", "", "preset message text")
		feeling := fs.String("feeling", "", "feeling emoji")
		country := fs.String("country", "", "two-letter country code")
		token := fs.String("token", "", "captcha verification token")
		_ = fs.Parse(flag.Args()[1:])
		runSubmit(ctx, session, wall.Selection{
			Message:     *message,
			Feeling:     *feeling,
			CountryCode: *country,
		}, *token)
	default:
		usage()
	}
}

func runList(ctx context.Context, session *wall.Session, pageNum int) {
	records, err := session.Wall(ctx)
	if err != nil && len(records) == 0 {
		stdlog.Fatalf("wall unavailable: %v", err)
	}
	if err != nil {
		fmt.Println("(proxy unreachable, showing your cached entries)")
	}
	pages := session.TotalPages(records)
	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > pages {
		pageNum = pages
	}
	printCards(session.Page(records, pageNum))
	fmt.Printf("page %d / %d (%d greetings)\n", pageNum, pages, len(records))
}

func runSubmit(ctx context.Context, session *wall.Session, sel wall.Selection, token string) {
	res, err := session.Submit(ctx, sel, token)
	if err != nil {
		var verr *wall.ValidationError
		var blocked *wall.BlockedError
		var dup *wall.DuplicateError
		var rejected *client.RejectedError
		switch {
		case errors.As(err, &verr):
			fmt.Printf("please fix your selection: %v\n", verr)
		case errors.As(err, &blocked):
			fmt.Printf("not yet: %v\n", blocked)
		case errors.As(err, &dup):
			fmt.Printf("not added: %v\n", dup)
		case errors.As(err, &rejected):
			fmt.Printf("the proxy rejected the submission: %v\n", rejected)
		default:
			fmt.Printf("something went wrong, try again later: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("thanks, your greeting was added!")
	printCards(res.FirstPage)
	fmt.Printf("page 1 / %d\n", res.Pages)
}

func printCards(cards []domain.GreetingRecord) {
	for _, c := range cards {
		when := ""
		if !c.CreatedAt.IsZero() {
			when = c.CreatedAt.Format("Jan 2, 2006")
		}
		fmt.Printf("  %s  %-50s %s %s\n", c.Feeling, c.Message, c.CountryCode, when)
	}
}
