// Package generator builds deterministic draft copy from a pillar, a platform
// and a brand voice. The same inputs always produce the same draft.
package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

type Kind string

const (
	KindFact    Kind = "fact"
	KindExample Kind = "example"
	KindStep    Kind = "step"
)

var kinds = []Kind{KindFact, KindExample, KindStep}

var Frameworks = []string{"carnegie", "cialdini", "succes", "hormozi", "atomic", "lean"}

var whyNotes = map[string]string{
	"succes":   "Uses SUCCES: simple + concrete + credible example to make it stick.",
	"carnegie": "Applies Carnegie: clear, empathetic tone; helpful first.",
	"cialdini": "Applies Cialdini: specific proof/example builds credibility.",
	"hormozi":  "Applies Hormozi: clear problem to practical outcome.",
	"atomic":   "Applies Atomic Habits: make it small and repeatable daily.",
	"lean":     "Applies Lean: try one small change, measure response, iterate.",
}

var (
	factLine    = regexp.MustCompile(`(?m)^(?:Slide 2: )?Fact:`)
	exampleLine = regexp.MustCompile(`(?m)^(?:Slide 2: )?Example:`)
	stepLine    = regexp.MustCompile(`(?m)^(?:Slide 2: )?Step:`)
)

type Input struct {
	Platform   models.Platform
	PillarID   string
	PillarName string
	BrandName  string
	Voice      models.VoiceCard
}

type Draft struct {
	Title     string
	Body      string
	AltText   string
	Hashtags  []string
	WhyNote   string
	Framework string
	Kind      Kind
}

// Generate builds a fresh draft seeded by platform, pillar and brand.
func Generate(in Input) Draft {
	in = withDefaults(in)
	seed := hash(fmt.Sprintf("%s-%s-%s", in.Platform, in.PillarID, in.BrandName))
	kind := kinds[seed%uint32(len(kinds))]
	framework := Frameworks[(seed+7)%uint32(len(Frameworks))]

	d := Draft{
		Body:      platformBody(in, kind),
		AltText:   fmt.Sprintf("Graphic placeholder for %s post", in.PillarName),
		Hashtags:  hashtags(in.PillarName),
		WhyNote:   whyNotes[framework],
		Framework: framework,
		Kind:      kind,
	}
	if in.Platform == models.PlatformLinkedIn {
		d.Title = fmt.Sprintf("%s: a tiny note", in.PillarName)
	}
	return applyVoice(d, in.Voice)
}

// Regenerate rotates the content kind (fact, example, step) and the framework
// of an existing post while keeping its platform and pillar.
func Regenerate(in Input, prev *models.Post) Draft {
	in = withDefaults(in)
	kind := nextKind(DetectKind(prev.Body))
	framework := Frameworks[0]
	for i, f := range Frameworks {
		if f == prev.Framework {
			framework = Frameworks[(i+1)%len(Frameworks)]
			break
		}
	}

	d := Draft{
		Title:     prev.Title,
		Body:      platformBody(in, kind),
		AltText:   prev.AltText,
		Hashtags:  prev.Hashtags,
		WhyNote:   whyNotes[framework],
		Framework: framework,
		Kind:      kind,
	}
	if in.Platform == models.PlatformLinkedIn {
		d.Title = fmt.Sprintf("%s: a tiny note (regen)", in.PillarName)
	}
	if d.AltText == "" {
		d.AltText = fmt.Sprintf("Graphic placeholder for %s post", in.PillarName)
	}
	return applyVoice(d, in.Voice)
}

// DetectKind finds which content kind a body was built from, or "" if none.
func DetectKind(body string) Kind {
	switch {
	case factLine.MatchString(body):
		return KindFact
	case exampleLine.MatchString(body):
		return KindExample
	case stepLine.MatchString(body):
		return KindStep
	}
	return ""
}

func nextKind(k Kind) Kind {
	switch k {
	case KindFact:
		return KindExample
	case KindExample:
		return KindStep
	}
	return KindFact
}

func withDefaults(in Input) Input {
	if in.PillarName == "" {
		in.PillarName = "Pillar"
	}
	if in.BrandName == "" {
		in.BrandName = "Demo Brand"
	}
	return in
}

func platformBody(in Input, kind Kind) string {
	lead := fmt.Sprintf("On %s, here's something useful.", strings.ToLower(in.PillarName))

	var one string
	switch kind {
	case KindFact:
		one = "Fact: Most founders underestimate how much consistent posting compounds trust over 30-60 days."
	case KindExample:
		one = fmt.Sprintf("Example: %s shared a tiny before/after of a workflow fix and earned 12 qualified replies in a week.", in.BrandName)
	default:
		one = "Step: Write one sentence that teaches a single idea, then add one concrete example. Post it today."
	}

	switch in.Platform {
	case models.PlatformLinkedIn:
		return strings.Join([]string{lead, "", one, "", "Ask: If this helped, follow for more tiny, practical notes."}, "\n")
	case models.PlatformInstagram:
		return strings.Join([]string{
			fmt.Sprintf("Slide 1: %s - one thing that actually helps.", in.PillarName),
			"Slide 2: " + one,
			"Slide 3: Keep it repeatable. Save to revisit.",
			"CTA: Follow for daily tiny wins!",
		}, "\n")
	case models.PlatformX:
		return fmt.Sprintf("%s • %s • Keep it small, ship it daily.", one, in.PillarName)
	}
	return fmt.Sprintf("%s\n\n%s\n\nTap Follow for more practical notes.", lead, one)
}

func hashtags(pillarName string) []string {
	words := strings.Fields(strings.ToLower(pillarName))
	if len(words) > 2 {
		words = words[:2]
	}
	tags := make([]string, 0, len(words)+1)
	for _, w := range words {
		tags = append(tags, "#"+w)
	}
	return append(tags, "#shipsocial")
}

func applyVoice(d Draft, voice models.VoiceCard) Draft {
	if voice.Bans("!") {
		d.Body = strings.ReplaceAll(d.Body, "!", ".")
		d.Title = strings.ReplaceAll(d.Title, "!", ".")
	}
	return d
}

func hash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}
