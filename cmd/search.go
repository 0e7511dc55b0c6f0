package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/searchbar/internal/api"
	"github.com/oakwood-commons/searchbar/internal/cel"
	"github.com/oakwood-commons/searchbar/internal/formatter"
	"github.com/oakwood-commons/searchbar/internal/limiter"
	"github.com/oakwood-commons/searchbar/internal/results"
	"github.com/oakwood-commons/searchbar/internal/speech"
	"github.com/oakwood-commons/searchbar/internal/suggest"
	"github.com/oakwood-commons/searchbar/internal/tracking"
	"github.com/oakwood-commons/searchbar/pkg/logger"
)

var (
	searchOutput  string
	limitResults  int
	offsetResults int
	tailResults   int
	country       string
	getOnly       bool

	suggestOutput  string
	suggestLimit   int
	suggestFilter  string
	listFunctions  bool
	listenSearch   bool
	trackingOutput string
)

// searchDoc is the structured form of a search printed by -o yaml|json|toml.
type searchDoc struct {
	Query    string           `json:"query" yaml:"query" toml:"query"`
	Tracking []tracking.Link  `json:"tracking,omitempty" yaml:"tracking,omitempty" toml:"tracking,omitempty"`
	Results  []results.Result `json:"results" yaml:"results" toml:"results"`
}

type suggestDoc struct {
	Query       string   `json:"query" yaml:"query" toml:"query"`
	Suggestions []string `json:"suggestions" yaml:"suggestions" toml:"suggestions"`
}

type trackingDoc struct {
	Number string          `json:"number" yaml:"number" toml:"number"`
	Links  []tracking.Link `json:"links" yaml:"links" toml:"links"`
}

type searchOptions struct {
	Query   string
	Format  string
	Window  limiter.Config
	Country string
	GetOnly bool
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run a search and print the results",
	Example: "\n  searchbar search golang generics\n  searchbar search --limit 3 -o json 'rust async'\n" +
		"  searchbar search --tail 2 --country DE wetter\n",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, searchOptions{
			Query:   strings.Join(args, " "),
			Format:  searchOutput,
			Window:  limiter.Config{Limit: limitResults, Offset: offsetResults, Tail: tailResults},
			Country: country,
			GetOnly: getOnly,
		})
	},
}

func runSearch(cmd *cobra.Command, opts searchOptions) error {
	if err := opts.Window.Validate(); err != nil {
		return err
	}
	if opts.Window.Limit == 0 && opts.Window.Tail == 0 {
		opts.Window.Limit = runCfg.Search.Limit
	}
	if opts.Country == "" {
		opts.Country = runCfg.Search.Country
	}
	query := strings.TrimSpace(opts.Query)
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)

	links := tracking.Detect(query)
	res, err := newClient(runCfg).Search(ctx, api.SearchRequest{
		Query:   query,
		Country: opts.Country,
		GetOnly: opts.GetOnly,
	})
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	lgr.V(1).Info("search finished", "query", query, "results", len(res), "tracking", len(links))
	res = limiter.Apply(opts.Window, res)

	doc := searchDoc{Query: query, Tracking: links, Results: res}
	switch opts.Format {
	case formatText:
		return writeSearchText(cmd.OutOrStdout(), doc)
	case formatTable:
		return writeSearchTable(cmd.OutOrStdout(), doc)
	}
	return writeOutput(cmd.OutOrStdout(), opts.Format, doc)
}

func writeSearchTable(w io.Writer, doc searchDoc) error {
	if len(doc.Tracking) > 0 {
		if err := writeTrackingTable(w, doc.Tracking); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if len(doc.Results) == 0 {
		_, err := fmt.Fprintf(w, "No results for %q\n", doc.Query)
		return err
	}
	rows := make([][]string, len(doc.Results))
	for i, r := range doc.Results {
		rows[i] = []string{r.Title, r.URL, r.Snippet}
	}
	return writeTable(w, []string{"TITLE", "URL", "SNIPPET"}, rows, true,
		formatter.ColumnHint{Priority: 2, MaxWidth: 60},
		formatter.ColumnHint{Priority: 1},
		formatter.ColumnHint{})
}

func writeTrackingTable(w io.Writer, links []tracking.Link) error {
	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{strings.ToUpper(l.Carrier), l.URL}
	}
	return writeTable(w, []string{"CARRIER", "URL"}, rows, false)
}

func writeSearchText(w io.Writer, doc searchDoc) error {
	var b strings.Builder
	for _, l := range doc.Tracking {
		fmt.Fprintf(&b, "%s (%s): %s\n", tracking.Label, strings.ToUpper(l.Carrier), l.URL)
	}
	if len(doc.Tracking) > 0 && len(doc.Results) > 0 {
		b.WriteString("\n")
	}
	if len(doc.Results) == 0 {
		fmt.Fprintf(&b, "No results for %q\n", doc.Query)
	}
	for i, r := range doc.Results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query...>",
	Short: "Print autocomplete suggestions for a query",
	Example: "\n  searchbar suggest ap\n" +
		"  searchbar suggest --filter 'candidate.size() < 12' golang\n" +
		"  searchbar suggest --functions\n",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFunctions {
			fns, err := cel.Functions()
			if err != nil {
				return err
			}
			for _, fn := range fns {
				fmt.Fprintln(cmd.OutOrStdout(), fn)
			}
			return nil
		}
		if len(args) == 0 {
			return errors.New("suggest requires a query")
		}
		return runSuggest(cmd, strings.Join(args, " "))
	},
}

func runSuggest(cmd *cobra.Command, query string) error {
	filter := runCfg.Suggest.Filter
	if cmd.Flags().Changed("filter") {
		filter = suggestFilter
	}
	matcher, err := newMatcher(filter)
	if err != nil {
		return err
	}
	limit := runCfg.Suggest.MaxRows
	if cmd.Flags().Changed("limit") {
		limit = suggestLimit
	}

	fetcher := suggest.NewFetcher(newClient(runCfg))
	res := fetcher.Fetch(cmd.Context(), fetcher.Issue(query))
	if res.Err != nil {
		return fmt.Errorf("autocomplete %q: %w", query, res.Err)
	}
	rows := suggest.Limit(suggest.Render(res.Candidates, query, matcher), limit)
	values := suggest.Values(rows)

	if suggestOutput == formatText {
		for _, v := range values {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	}
	if values == nil {
		values = []string{}
	}
	return writeOutput(cmd.OutOrStdout(), suggestOutput, suggestDoc{Query: query, Suggestions: values})
}

// newMatcher compiles a CEL suggestion filter. An empty filter keeps the
// case-insensitive prefix match.
func newMatcher(filter string) (suggest.Matcher, error) {
	if strings.TrimSpace(filter) == "" {
		return suggest.PrefixMatcher{}, nil
	}
	m, err := cel.NewMatcher(filter)
	if err != nil {
		return nil, fmt.Errorf("suggest.filter: %w", err)
	}
	return m, nil
}

var trackCmd = &cobra.Command{
	Use:     "track <number>",
	Short:   "Print carrier tracking links for a tracking number",
	Example: "\n  searchbar track 1Z999AA10123456784\n  searchbar track '9400 1118 9922 3197 4284 90'\n",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number := strings.Join(args, " ")
		links := tracking.Detect(number)
		if len(links) == 0 {
			return fmt.Errorf("%q does not look like a %s tracking number",
				number, strings.ToUpper(strings.Join(tracking.Carriers(), ", ")))
		}
		switch trackingOutput {
		case formatText:
			for _, l := range links {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", strings.ToUpper(l.Carrier), l.URL)
			}
			return nil
		case formatTable:
			return writeTrackingTable(cmd.OutOrStdout(), links)
		}
		return writeOutput(cmd.OutOrStdout(), trackingOutput, trackingDoc{Number: number, Links: links})
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Capture one utterance with speech.command and print the transcript",
	Example: "\n  searchbar listen\n  searchbar listen --search\n",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rec := speech.ExecRecognizer{Command: runCfg.Speech.Command}
		res, err := rec.Recognize(cmd.Context(), runCfg.Speech.Lang)
		if err != nil {
			logger.FromContext(cmd.Context()).V(1).Info("speech recognition failed", "error", err.Error())
			return errors.New(speech.Message(err))
		}
		if !listenSearch {
			fmt.Fprintln(cmd.OutOrStdout(), res.Transcript)
			return nil
		}
		return runSearch(cmd, searchOptions{Query: res.Transcript, Format: formatText})
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", formatText, "output format: text|table|yaml|json|toml")
	searchCmd.Flags().IntVar(&limitResults, "limit", 0, "show only the first N results (default search.limit)")
	searchCmd.Flags().IntVar(&offsetResults, "offset", 0, "skip the first N results")
	searchCmd.Flags().IntVar(&tailResults, "tail", 0, "show only the last N results")
	searchCmd.Flags().StringVar(&country, "country", "", "country code sent with the query (default search.country)")
	searchCmd.Flags().BoolVar(&getOnly, "get-only", false, "send the query as URL parameters instead of a form post")

	suggestCmd.Flags().StringVarP(&suggestOutput, "output", "o", formatText, "output format: text|yaml|json|toml")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "maximum suggestions, 0 for all (default suggest.max_rows)")
	suggestCmd.Flags().StringVar(&suggestFilter, "filter", "", "CEL predicate over candidate and query (default suggest.filter)")
	suggestCmd.Flags().BoolVar(&listFunctions, "functions", false, "list the functions available to --filter")

	trackCmd.Flags().StringVarP(&trackingOutput, "output", "o", formatText, "output format: text|table|yaml|json|toml")

	listenCmd.Flags().BoolVar(&listenSearch, "search", false, "search for the transcript instead of printing it")

	rootCmd.AddCommand(searchCmd, suggestCmd, trackCmd, listenCmd)
}
