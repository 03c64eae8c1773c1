package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// Requirement tags a data domain a generator draws on. Informational only.
type Requirement string

// Known requirements.
const (
	RequiresTokens Requirement = "tokens"
	RequiresNFTs   Requirement = "nfts"
	RequiresTxs    Requirement = "txs"
	RequiresPrices Requirement = "prices"
)

// PrePromptFunc enriches the request variables before the data phase.
type PrePromptFunc func(ctx context.Context, vars Vars) (Vars, error)

// DataProcessor computes card data directly instead of prompting a model.
type DataProcessor func(ctx context.Context, vars Vars) (domain.CardData, error)

// MediaInput is passed to custom media processors.
type MediaInput struct {
	Vars Vars
	Data domain.CardData
	Caps Capabilities
}

// MediaProcessor produces media directly. A nil media with a nil error means
// the card has no media.
type MediaProcessor func(ctx context.Context, in MediaInput) (*domain.Media, error)

// DataSource is how a spec produces card data: PromptedData or CustomData.
type DataSource interface {
	dataSource()
}

// PromptedData renders Template and asks the AI client for card data.
type PromptedData struct {
	Template string
}

// CustomData runs Process to produce card data.
type CustomData struct {
	Process DataProcessor
}

func (PromptedData) dataSource() {}
func (CustomData) dataSource()   {}

// MediaSource is how a spec produces media: PromptedMedia or CustomMedia. A
// nil MediaSource means the card has no media.
type MediaSource interface {
	mediaSource()
}

// PromptedMedia renders Template and asks the AI client for one media object.
type PromptedMedia struct {
	Template string
}

// CustomMedia runs Process to produce media.
type CustomMedia struct {
	Process MediaProcessor
}

func (PromptedMedia) mediaSource() {}
func (CustomMedia) mediaSource()   {}

// ResolveDataSource picks the data source for a prompt/processor pair. The
// processor wins when both are set; neither is a configuration error.
func ResolveDataSource(prompt string, processor DataProcessor) (DataSource, error) {
	switch {
	case processor != nil:
		return CustomData{Process: processor}, nil
	case strings.TrimSpace(prompt) != "":
		return PromptedData{Template: prompt}, nil
	default:
		return nil, ErrMissingDataSource
	}
}

// ResolveMediaSource picks the media source with the same precedence as
// ResolveDataSource. Neither yields nil.
func ResolveMediaSource(prompt string, processor MediaProcessor) MediaSource {
	switch {
	case processor != nil:
		return CustomMedia{Process: processor}
	case strings.TrimSpace(prompt) != "":
		return PromptedMedia{Template: prompt}
	default:
		return nil
	}
}

// Definition is the loose form of a generator as authors write it. NewSpec
// resolves it into a Spec.
type Definition struct {
	Kind           string
	Version        int
	Order          int
	Requires       []Requirement
	Tools          []string
	PrePrompt      PrePromptFunc
	DataPrompt     string
	DataProcessor  DataProcessor
	MediaPrompt    string
	MediaProcessor MediaProcessor
}

// Spec is a resolved generator: everything needed to build one card kind.
type Spec struct {
	Kind      string
	Version   int
	Order     int
	Requires  []Requirement
	Tools     []string
	PrePrompt PrePromptFunc
	Data      DataSource
	Media     MediaSource
}

// NewSpec resolves def into a Spec.
func NewSpec(def Definition) (Spec, error) {
	data, err := ResolveDataSource(def.DataPrompt, def.DataProcessor)
	if err != nil {
		return Spec{}, fmt.Errorf("generator %q: %w", def.Kind, err)
	}

	spec := Spec{
		Kind:      strings.TrimSpace(def.Kind),
		Version:   def.Version,
		Order:     def.Order,
		Requires:  def.Requires,
		Tools:     def.Tools,
		PrePrompt: def.PrePrompt,
		Data:      data,
		Media:     ResolveMediaSource(def.MediaPrompt, def.MediaProcessor),
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}

	return spec, nil
}

// MustSpec is like NewSpec but panics on error. It is meant for built-in
// generators declared at package level.
func MustSpec(def Definition) Spec {
	spec, err := NewSpec(def)
	if err != nil {
		panic(err)
	}
	return spec
}

// Validate checks that the spec can be built.
func (s Spec) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, domain.ErrEmptyKind)
	}
	switch src := s.Data.(type) {
	case nil:
		return fmt.Errorf("generator %q: %w", s.Kind, ErrMissingDataSource)
	case CustomData:
		if src.Process == nil {
			return fmt.Errorf("generator %q: %w", s.Kind, ErrMissingDataSource)
		}
	case PromptedData:
		if strings.TrimSpace(src.Template) == "" {
			return fmt.Errorf("generator %q: %w", s.Kind, ErrMissingDataSource)
		}
	}
	for _, r := range s.Requires {
		switch r {
		case RequiresTokens, RequiresNFTs, RequiresTxs, RequiresPrices:
		default:
			return fmt.Errorf("%w: generator %q has unknown requirement %q", ErrInvalidSpec, s.Kind, r)
		}
	}
	return nil
}

// DataMode names the data source for logging.
func (s Spec) DataMode() string {
	switch s.Data.(type) {
	case CustomData:
		return "processor"
	case PromptedData:
		return "prompt"
	default:
		return "none"
	}
}

// MediaMode names the media source for logging.
func (s Spec) MediaMode() string {
	switch s.Media.(type) {
	case CustomMedia:
		return "processor"
	case PromptedMedia:
		return "prompt"
	default:
		return "none"
	}
}
