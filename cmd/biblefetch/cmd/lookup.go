package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/VeryOriginalIK/BibleFetch/internal/config"
	"github.com/VeryOriginalIK/BibleFetch/internal/lookup"
)

// newLookupCmd creates the lookup command group. Lookups read the
// generated tree exactly the way a frontend consumer does, so they
// double as a smoke test of a generation run.
func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the generated corpus tree",
	}
	cmd.AddCommand(newLookupWordCmd())
	cmd.AddCommand(newLookupStrongsCmd())
	cmd.AddCommand(newLookupOriginalCmd())
	cmd.AddCommand(newLookupDefineCmd())
	return cmd
}

// newLookupClient builds a client over the configured tree. The caller
// must invoke cleanup when done.
func newLookupClient() (*lookup.Client, *config.Config, func(), error) {
	cfg, log, cleanup, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := lookup.New(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return client, cfg, cleanup, nil
}

func newLookupWordCmd() *cobra.Command {
	var translation string

	cmd := &cobra.Command{
		Use:   "word <word>",
		Short: "Find verses containing a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, cleanup, err := newLookupClient()
			if err != nil {
				return err
			}
			defer cleanup()

			if translation == "" && len(cfg.Index.Translations) > 0 {
				translation = cfg.Index.Translations[0]
			}
			res, err := client.Word(translation, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s): %d occurrences in %d verses\n",
				res.Word, res.Translation, len(res.Occurrences), res.UniqueVerses)
			for _, id := range res.Occurrences {
				fmt.Fprintln(w, " ", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&translation, "translation", "",
		"Translation to search (default: first configured)")
	return cmd
}

func newLookupStrongsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strongs <code>",
		Short: "Find verses referencing a Strong's code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, cleanup, err := newLookupClient()
			if err != nil {
				return err
			}
			defer cleanup()

			verses, err := client.Strongs(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d verses\n", len(verses))
			for _, id := range verses {
				fmt.Fprintln(w, " ", id)
			}
			return nil
		},
	}
}

func newLookupOriginalCmd() *cobra.Command {
	var translation string

	cmd := &cobra.Command{
		Use:   "original <term>",
		Short: "Find verses by original-language term, transliteration, or code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, cleanup, err := newLookupClient()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.Original(translation, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s): %d verses\n", res.Term, res.Translation, len(res.Verses))
			for _, id := range res.Verses {
				fmt.Fprintln(w, " ", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&translation, "translation", "",
		"Indexed translation (default: auto-detect)")
	return cmd
}

func newLookupDefineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "define <code>",
		Short: "Show the lexicon entry for a Strong's code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, cleanup, err := newLookupClient()
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := client.Define(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s  %s", entry.ID, entry.Lemma)
			if entry.Translit != "" {
				fmt.Fprintf(w, "  (%s)", entry.Translit)
			}
			fmt.Fprintln(w)
			if entry.Pronounce != "" {
				fmt.Fprintf(w, "pronunciation: %s\n", entry.Pronounce)
			}

			keys := make([]string, 0, len(entry.Defs))
			for k := range entry.Defs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s: %s\n", k, entry.Defs[k])
			}
			return nil
		},
	}
}
