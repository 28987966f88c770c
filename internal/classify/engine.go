package classify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/menu"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/taxonomy"
)

// Completer is the outbound text-completion boundary. The engine only
// needs a system+user prompt and the model's first reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Engine assigns every menu item a taxonomy classification. The AI path
// is attempted first; any failure on it (transport, timeout, non-200,
// malformed reply, missing ids) is absorbed into the deterministic
// keyword fallback. Classify is total.
type Engine struct {
	client Completer
}

func NewEngine(client Completer) *Engine {
	return &Engine{client: client}
}

// aiReply is the compact object the classification prompt asks for.
// Pointer ids distinguish "absent" from zero.
type aiReply struct {
	CategoryID     *int   `json:"category_id"`
	AttributeID    *int   `json:"attribute_id"`
	VariationIDs   []int  `json:"variation_ids"`
	Description120 string `json:"description_120"`
}

// Classify returns the item with AICategory populated. It never fails.
func (e *Engine) Classify(ctx context.Context, item menu.MenuItem) menu.MenuItem {
	ai, desc, err := e.aiClassify(ctx, item.Name, item.Description)
	if err != nil {
		log.Printf("classify: ai path failed for %q, using rule fallback: %v", item.Name, err)
		item.AICategory = FallbackClassification(item.Name)
		item.AIDescription = ""
		item.AllowVariation = 1
		return item
	}

	item.AICategory = ai
	item.AIDescription = desc
	if len(uniqueInts(ai.VariationIDs)) > 1 {
		item.AllowVariation = 1
	} else {
		item.AllowVariation = 0
	}
	return item
}

// ClassifyAll classifies every item, fanning out with bounded
// concurrency. Output order matches input order regardless of
// completion order, and one item's failure never touches its siblings.
func (e *Engine) ClassifyAll(ctx context.Context, m *menu.NormalizedMenu) *menu.NormalizedMenu {
	if m == nil {
		return menu.Skeleton()
	}

	out := &menu.NormalizedMenu{
		RestaurantName: m.RestaurantName,
		MenuSections:   make([]menu.MenuSection, len(m.MenuSections)),
	}

	var g errgroup.Group
	g.SetLimit(4)

	for si, sec := range m.MenuSections {
		out.MenuSections[si] = menu.MenuSection{
			SectionName: sec.SectionName,
			Items:       make([]menu.MenuItem, len(sec.Items)),
		}
		for ii, item := range sec.Items {
			si, ii, item := si, ii, item
			g.Go(func() error {
				out.MenuSections[si].Items[ii] = e.Classify(ctx, item)
				return nil
			})
		}
	}

	// Classify never errors, so Wait only synchronizes.
	_ = g.Wait()
	return out
}

var errMissingIDs = errors.New("classification reply missing category_id or attribute_id")

func (e *Engine) aiClassify(ctx context.Context, name, desc string) (*menu.Classification, string, error) {
	if e.client == nil {
		return nil, "", errors.New("no classification client configured")
	}

	reply, err := e.client.Complete(ctx, systemPrompt, buildPrompt(name, desc))
	if err != nil {
		return nil, "", err
	}

	var parsed aiReply
	if err := json.Unmarshal([]byte(stripFences(reply)), &parsed); err != nil {
		return nil, "", err
	}
	if parsed.CategoryID == nil || parsed.AttributeID == nil {
		return nil, "", errMissingIDs
	}

	ids := uniqueInts(parsed.VariationIDs)
	if len(ids) == 0 {
		ids = []int{taxonomy.VariationFullPlate}
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = taxonomy.VariationName(id)
	}

	// Unknown ids keep their numeric value; only the name degrades.
	ai := &menu.Classification{
		CategoryID:     *parsed.CategoryID,
		CategoryName:   taxonomy.CategoryName(*parsed.CategoryID),
		AttributeID:    *parsed.AttributeID,
		AttributeName:  taxonomy.AttributeName(*parsed.AttributeID),
		VariationIDs:   ids,
		VariationNames: names,
	}
	return ai, ClampDescription(parsed.Description120), nil
}

var replyFenceRe = regexp.MustCompile("(?i)```json\\s*|\\s*```")

// stripFences is the lighter sanitizer used on classification replies;
// they are short, so no balanced-brace scan is needed.
func stripFences(s string) string {
	return strings.TrimSpace(replyFenceRe.ReplaceAllString(s, ""))
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
