package confirm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Prompt asks an operator on the terminal.
type Prompt struct{}

// Decide implements Decider.
func (Prompt) Decide(ctx context.Context, p Proposal) (Decision, error) {
	var decision Decision
	title := "Execute " + p.Description + "?"
	if p.Plan != nil {
		title = fmt.Sprintf("Execute %s (%d waypoints)?", p.Description, len(p.Plan.Waypoints))
	}
	sel := huh.NewSelect[Decision]().
		Title(title).
		Options(
			huh.NewOption(Execute.String(), Execute),
			huh.NewOption(Redisplay.String(), Redisplay),
		).
		Value(&decision)
	if err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		return Redisplay, err
	}
	return decision, nil
}
