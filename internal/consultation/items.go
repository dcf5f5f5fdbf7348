package consultation

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// ToggleItem returns a copy of items with Checked flipped on id. Unknown ids
// leave the copy unchanged.
func ToggleItem(items []domain.IntakeChecklistItem, id string) []domain.IntakeChecklistItem {
	out := make([]domain.IntakeChecklistItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Checked = !out[i].Checked
		}
	}
	return out
}

// RemoveItem returns a copy of items without id. Required items are kept.
func RemoveItem(items []domain.IntakeChecklistItem, id string) []domain.IntakeChecklistItem {
	out := make([]domain.IntakeChecklistItem, 0, len(items))
	for _, it := range items {
		if it.ID == id && !it.Required {
			continue
		}
		out = append(out, it)
	}
	return out
}

// AddCustomItem returns a copy of items with a user-added, optional item
// appended. Blank text returns an unchanged copy.
func AddCustomItem(items []domain.IntakeChecklistItem, id, text string) []domain.IntakeChecklistItem {
	out := make([]domain.IntakeChecklistItem, len(items), len(items)+1)
	copy(out, items)
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	return append(out, domain.IntakeChecklistItem{
		ID:        id,
		Text:      text,
		Required:  false,
		UserAdded: true,
	})
}

func findItem(items []domain.IntakeChecklistItem, id string) (domain.IntakeChecklistItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.IntakeChecklistItem{}, false
}

func section(c *domain.ConsultationChecklist, s domain.ChecklistSection) ([]domain.IntakeChecklistItem, error) {
	items, ok := c.Section(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return items, nil
}

// Toggle flips an item's Checked state in the named section.
func Toggle(c *domain.ConsultationChecklist, s domain.ChecklistSection, id string, now time.Time) error {
	items, err := section(c, s)
	if err != nil {
		return err
	}
	if _, ok := findItem(items, id); !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	c.SetSection(s, ToggleItem(items, id), now)
	return nil
}

// Remove deletes a non-required item from the named section.
func Remove(c *domain.ConsultationChecklist, s domain.ChecklistSection, id string, now time.Time) error {
	items, err := section(c, s)
	if err != nil {
		return err
	}
	it, ok := findItem(items, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if it.Required {
		return fmt.Errorf("%w: %q", ErrRequiredItem, it.Text)
	}
	c.SetSection(s, RemoveItem(items, id), now)
	return nil
}

// AddCustom appends a user item to the named section. It reports false and
// leaves the checklist untouched when text is blank.
func AddCustom(c *domain.ConsultationChecklist, s domain.ChecklistSection, id, text string, now time.Time) (bool, error) {
	items, err := section(c, s)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	c.SetSection(s, AddCustomItem(items, id, text), now)
	return true, nil
}

// MergeResearch appends snippets whose titles are not already present and
// returns how many were added. Material snippets share a generic title, so
// they are keyed on content as well.
func MergeResearch(c *domain.ConsultationChecklist, snippets []domain.IntakeResearchSnippet, now time.Time) int {
	seen := make(map[string]bool, len(c.Research))
	for _, s := range c.Research {
		seen[researchKey(s)] = true
	}
	added := 0
	for _, s := range snippets {
		key := researchKey(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		c.Research = append(c.Research, s)
		added++
	}
	if added > 0 {
		c.Touch(now)
	}
	return added
}

func researchKey(s domain.IntakeResearchSnippet) string {
	key := strings.ToLower(s.Title)
	if s.Category == domain.SnippetMaterial {
		key += "\x00" + strings.ToLower(s.Content)
	}
	return key
}

// Progress counts checked and total items across the checkable sections.
func Progress(c *domain.ConsultationChecklist) (checked, total int) {
	for _, s := range domain.ChecklistSections {
		items, _ := c.Section(s)
		for _, it := range items {
			total++
			if it.Checked {
				checked++
			}
		}
	}
	return checked, total
}

// HasAIResearch reports whether any LLM-sourced snippet is attached.
func HasAIResearch(c *domain.ConsultationChecklist) bool {
	for _, s := range c.Research {
		if s.Source == domain.SourceLLM {
			return true
		}
	}
	return false
}
