package domain

import (
	"strings"
	"testing"
)

func TestRenderTemplateSubstitutesName(t *testing.T) {
	t.Parallel()

	got := RenderTemplate("Hi {{name}}, your order shipped.", Recipient{Name: "Asha"})
	if !strings.Contains(got, "Hi Asha,") {
		t.Fatalf("RenderTemplate() = %q, want it to contain %q", got, "Hi Asha,")
	}
}

func TestRenderTemplateDefaultsMissingName(t *testing.T) {
	t.Parallel()

	got := RenderTemplate("Hi {{name}}", Recipient{Name: "   "})
	if got != "Hi Friend" {
		t.Fatalf("RenderTemplate() = %q, want %q", got, "Hi Friend")
	}
}

func TestRenderTemplateReplacesEveryOccurrence(t *testing.T) {
	t.Parallel()

	got := RenderTemplate("{{name}} and {{name}}", Recipient{Name: "Asha"})
	if got != "Asha and Asha" {
		t.Fatalf("RenderTemplate() = %q, want %q", got, "Asha and Asha")
	}
}

func TestRenderTemplateLeavesUnknownPlaceholders(t *testing.T) {
	t.Parallel()

	got := RenderTemplate("Hi {{name}}, code {{coupon}}", Recipient{Name: "Asha"})
	if got != "Hi Asha, code {{coupon}}" {
		t.Fatalf("RenderTemplate() = %q, unknown placeholder must pass through", got)
	}
}
