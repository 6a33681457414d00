package annotate

import "github.com/DrSkyle/lineblame/pkg/editor"

// Status indicator wording.
const (
	LabelOn        = "Blame: on"
	LabelOff       = "Blame: off"
	LabelNotRepo   = "Blame: not a repository"
	TooltipOn      = "Showing git blame for selected lines. Toggle Git Blame to hide."
	TooltipOff     = "Git blame is hidden. Toggle Git Blame to show."
	TooltipNotRepo = "The current file is not inside a git repository."
)

// ShowToggleState sets the on/off wording.
func ShowToggleState(s editor.StatusIndicator, on bool) {
	if on {
		s.SetStatus(LabelOn, TooltipOn)
		return
	}
	s.SetStatus(LabelOff, TooltipOff)
}

// ShowNotRepository sets the "not a repository" wording.
func ShowNotRepository(s editor.StatusIndicator) {
	s.SetStatus(LabelNotRepo, TooltipNotRepo)
}
