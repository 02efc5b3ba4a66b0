package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/oraziooztas/poker-trainer/poker"
	"github.com/oraziooztas/poker-trainer/sdk/classification"
)

// OutsCmd lists the draws held on a flop or turn.
type OutsCmd struct {
	Hole  string `arg:"" help:"Your hole cards (e.g., 'AhKh')"`
	Board string `arg:"" help:"Flop or turn (e.g., '2h7h9c')"`
}

func (c *OutsCmd) Run(g *Globals) error {
	if _, _, err := g.setup(); err != nil {
		return err
	}

	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(hole) != 2 || len(board) < 3 || len(board) > 4 {
		return fmt.Errorf("%w: need 2 hole cards and a 3 or 4 card board", poker.ErrInvalidInput)
	}

	displayOuts(os.Stdout, hole, board, classification.ClassifyOuts(hole, board))
	return nil
}

func displayOuts(out io.Writer, hole, board []poker.Card, outs []classification.Outs) {
	fmt.Fprintf(out, "%s %s\n", headerStyle.Render("hand"), handStyle.Render(poker.FormatCards(hole)))
	texture := classification.AnalyzeBoardTexture(poker.NewHand(board...))
	fmt.Fprintf(out, "%s %s %s\n\n", headerStyle.Render("board"), poker.FormatCards(board), dimStyle.Render("("+texture.String()+")"))

	if len(outs) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no draws"))
		return
	}

	// One card to come on the turn, two on the flop.
	toRiver := len(board) == 3

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("draw"),
		headerStyle.Render("outs"),
		headerStyle.Render("next card"),
		headerStyle.Render("estimate"))
	for _, o := range outs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			categoryStyle.Render(o.Description),
			o.Outs,
			winStyle.Render(formatPercent(o.Probability)),
			tieStyle.Render(formatPercent(o.Estimate(toRiver))))
	}
	_ = w.Flush()
}
