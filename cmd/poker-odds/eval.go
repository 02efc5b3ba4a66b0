package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/oraziooztas/poker-trainer/poker"
)

// EvalCmd evaluates one or more made hands and marks the best.
type EvalCmd struct {
	Hands []string `arg:"" help:"Hands of 5 to 7 cards (e.g., 'AsKsQsJsTs 9c9d9h2s2d')"`
}

func (c *EvalCmd) Run(g *Globals) error {
	if _, _, err := g.setup(); err != nil {
		return err
	}

	results := make([]evaluation, 0, len(c.Hands))
	for i, h := range c.Hands {
		cards, err := poker.ParseCards(h)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		result, err := poker.Evaluate(cards...)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		results = append(results, evaluation{cards: cards, result: result})
	}

	displayEvaluations(os.Stdout, results)
	return nil
}

type evaluation struct {
	cards  []poker.Card
	result poker.HandResult
}

func displayEvaluations(out io.Writer, evals []evaluation) {
	var best poker.Strength
	for _, e := range evals {
		best = max(best, e.result.Value)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("cards"),
		headerStyle.Render("best five"),
		headerStyle.Render("category"),
		headerStyle.Render("value"))
	for _, e := range evals {
		marker := ""
		if len(evals) > 1 && poker.Compare(e.result.Value, best) == 0 {
			marker = winStyle.Render("*")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n",
			poker.FormatCards(e.cards),
			handStyle.Render(poker.FormatCards(e.result.Cards[:])),
			categoryStyle.Render(e.result.Category.String()),
			dimStyle.Render(fmt.Sprintf("%#06x", uint32(e.result.Value))),
			marker)
	}
	_ = w.Flush()
}
