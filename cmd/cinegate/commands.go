package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/cinegate/internal/tmdb"
)

// Response shapes, mirroring the server's JSON. Movie entries share the
// upstream field subset, so they decode straight into tmdb.Movie.

type clientResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type movieResponse struct {
	Movie           tmdb.Movie   `json:"movie"`
	Recommendations []tmdb.Movie `json:"recommendations"`
	CacheHit        bool         `json:"cache_hit"`
}

type searchResponse struct {
	Page         int          `json:"page"`
	Results      []tmdb.Movie `json:"results"`
	TotalResults int          `json:"total_results"`
}

// movieLine formats one movie row for list output.
func movieLine(m *tmdb.Movie) string {
	year := "    "
	if y := m.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	return fmt.Sprintf("%-8d %-40s %s  %.1f", m.ID, m.Title, year, m.VoteAverage)
}

type healthResponse struct {
	Status string `json:"status"`
	Cache  struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"cache"`
	Database string `json:"database"`
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage API clients (admin)",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Register a new API client and print its key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c := NewClient(serverURL, apiKey)
		var resp clientResponse
		if err := c.post("/admin/clients", map[string]string{
			"name":  args[0],
			"email": args[1],
		}, &resp); err != nil {
			fail(err)
		}

		if jsonOutput {
			printJSON(resp)
			return
		}
		fmt.Printf("Client:  %s <%s> (id %d)\n", resp.Name, resp.Email, resp.ID)
		fmt.Printf("API key: %s\n", resp.APIKey)
	},
}

var movieLanguage string

var movieCmd = &cobra.Command{
	Use:   "movie <tmdb-id>",
	Short: "Fetch a movie bundle (details + top recommendations)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fail(fmt.Errorf("invalid movie ID %q", args[0]))
		}

		c := NewClient(serverURL, apiKey)
		path := fmt.Sprintf("/api/movies/%d", id)
		if movieLanguage != "" {
			path += "?language=" + url.QueryEscape(movieLanguage)
		}

		var resp movieResponse
		if err := c.get(path, &resp); err != nil {
			fail(err)
		}

		if jsonOutput {
			printJSON(resp)
			return
		}
		fmt.Printf("%s (%d)  rating %.1f  cache_hit=%v\n",
			resp.Movie.Title, resp.Movie.Year(), resp.Movie.VoteAverage, resp.CacheHit)
		if poster := resp.Movie.PosterURL("w342"); poster != "" {
			fmt.Printf("Poster:  %s\n", poster)
		}
		if resp.Movie.Overview != "" {
			fmt.Printf("\n%s\n", resp.Movie.Overview)
		}
		if len(resp.Recommendations) > 0 {
			fmt.Println("\nRecommended:")
			for _, rec := range resp.Recommendations {
				fmt.Printf("  %s\n", movieLine(&rec))
			}
		}
	},
}

var (
	searchLanguage  string
	searchPage      int
	searchRelevance bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies through the gateway",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params := url.Values{"query": {args[0]}}
		if searchLanguage != "" {
			params.Set("language", searchLanguage)
		}
		if searchPage > 1 {
			params.Set("page", strconv.Itoa(searchPage))
		}
		if searchRelevance {
			params.Set("sort", "relevance")
		}

		c := NewClient(serverURL, apiKey)
		var resp searchResponse
		if err := c.get("/api/movies/search?"+params.Encode(), &resp); err != nil {
			fail(err)
		}

		if jsonOutput {
			printJSON(resp)
			return
		}
		fmt.Printf("Page %d, %d total results\n\n", resp.Page, resp.TotalResults)
		for _, m := range resp.Results {
			fmt.Printf("  %s\n", movieLine(&m))
		}
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache maintenance (admin)",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Flush the entire result cache",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := NewClient(serverURL, apiKey)
		var resp map[string]string
		if err := c.post("/api/cache/clear", nil, &resp); err != nil {
			fail(err)
		}
		fmt.Println(resp["message"])
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gateway health",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := NewClient(serverURL, apiKey)
		var resp healthResponse
		if err := c.get("/api/health", &resp); err != nil {
			fail(err)
		}

		if jsonOutput {
			printJSON(resp)
			return
		}
		fmt.Printf("Server:   %s (%s)\n", serverURL, resp.Status)
		fmt.Printf("Cache:    %s\n", resp.Cache.Status)
		fmt.Printf("Database: %s\n", resp.Database)
	},
}

func init() {
	movieCmd.Flags().StringVar(&movieLanguage, "language", "", "Result language (BCP 47, e.g. en-US)")

	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "Result language (BCP 47, e.g. en-US)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page")
	searchCmd.Flags().BoolVar(&searchRelevance, "relevance", false, "Re-rank results by title similarity")

	clientCmd.AddCommand(clientAddCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(clientCmd, movieCmd, searchCmd, cacheCmd, statusCmd)
}
