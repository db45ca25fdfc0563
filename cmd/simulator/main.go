package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Real Google Books volume ids, so populate exercises the catalog client.
var seedVolumes = []string{
	"zyTCAlFPjgYC", // The Google Story
	"wrOQLV6xB-wC", // Harry Potter and the Sorcerer's Stone
	"B1hSG45JCX4C", // Dune
	"yl4dILkcqm4C", // The Hobbit
	"s1gVAAAAYAAJ", // Pride and Prejudice
	"ZrNzAwAAQBAJ", // 1984
	"Kr2KDwAAQBAJ", // Educated
	"9vsVDAAAQBAJ", // The Martian
}

const simulatedPassword = "simulate!123"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "suggest":
		suggestCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`LibriVerse Simulator - Development tool for seeding readers and activity

USAGE:
  simulator <command> [options]

COMMANDS:
  populate  Create fake readers with overlapping favorites, follows and recommendations
  suggest   Sign in as a reader and print their book suggestions
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8000)

EXAMPLES:
  # Create 8 readers, each favoriting 3 of the seed books
  simulator populate

  # Create 20 readers with 4 favorites each
  simulator populate --count=20 --favorites=4

  # Show suggestions for a simulated reader
  simulator suggest --email=sim_ab12cd34@example.com`)
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	count := fs.Int("count", 8, "Number of fake readers to create")
	favorites := fs.Int("favorites", 3, "Favorites per reader")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}
	if *favorites < 1 || *favorites > len(seedVolumes) {
		fmt.Printf("Error: --favorites must be between 1 and %d\n", len(seedVolumes))
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("Fetching seed books...")
	books := make([]*Book, 0, len(seedVolumes))
	for _, id := range seedVolumes {
		book, err := client.GetBook(id)
		if err != nil {
			fmt.Printf("  skip %s: %v\n", id, err)
			continue
		}
		fmt.Printf("  %s (%s)\n", book.Title, strings.Join(book.Authors, ", "))
		books = append(books, book)
	}
	if len(books) == 0 {
		fmt.Println("Error: no seed books could be fetched")
		os.Exit(1)
	}
	if *favorites > len(books) {
		*favorites = len(books)
	}

	fmt.Printf("\nCreating %d readers...\n", *count)
	sessions := make([]*Session, 0, *count)
	for i := 0; i < *count; i++ {
		suffix := uuid.New().String()[:8]
		email := fmt.Sprintf("sim_%s@example.com", suffix)

		if _, err := client.Signup("sim_"+suffix, email, simulatedPassword); err != nil {
			fmt.Printf("  signup failed: %v\n", err)
			continue
		}
		session, err := client.Signin(email, simulatedPassword)
		if err != nil {
			fmt.Printf("  signin failed: %v\n", err)
			continue
		}
		sessions = append(sessions, session)

		picks := rand.Perm(len(books))[:*favorites]
		titles := make([]string, 0, len(picks))
		for _, idx := range picks {
			if err := client.AddFavorite(session.Token, books[idx].ID); err != nil {
				fmt.Printf("  favorite failed: %v\n", err)
				continue
			}
			titles = append(titles, books[idx].Title)
		}
		fmt.Printf("  %s favorites: %s\n", email, strings.Join(titles, "; "))
	}

	fmt.Println("\nFollowing and recommending...")
	var recs []*Recommendation
	for i, s := range sessions {
		next := sessions[(i+1)%len(sessions)]
		if next != s {
			if err := client.Follow(s.Token, next.User.ID); err != nil {
				fmt.Printf("  follow failed: %v\n", err)
			}
		}

		book := books[rand.Intn(len(books))]
		rec, err := client.Recommend(s.Token, book.ID, fmt.Sprintf("%s recommends %s", s.User.Username, book.Title))
		if err != nil {
			fmt.Printf("  recommend failed: %v\n", err)
			continue
		}
		recs = append(recs, rec)
	}

	for _, s := range sessions {
		if len(recs) == 0 {
			break
		}
		rec := recs[rand.Intn(len(recs))]
		if err := client.Like(s.Token, rec.ID); err != nil {
			fmt.Printf("  like failed: %v\n", err)
		}
	}

	if len(sessions) > 0 {
		top, err := client.TopRecommendations(sessions[0].Token)
		if err == nil {
			fmt.Println("\nTop recommendations:")
			for _, r := range top {
				fmt.Printf("  %d likes  %s\n", r.LikesCount, r.RecommendationText)
			}
		}
	}

	fmt.Printf("\nDone. Readers share the password %q.\n", simulatedPassword)
}

func suggestCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	email := fs.String("email", "", "Reader email (required)")
	password := fs.String("password", simulatedPassword, "Reader password")
	fs.Parse(args)

	if *email == "" {
		fmt.Println("Error: --email is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	session, err := client.Signin(*email, *password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	books, message, err := client.Suggestions(session.Token)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(message)
	for _, b := range books {
		fmt.Printf("  %s (%s)\n", b.Title, strings.Join(b.Authors, ", "))
	}
}
