package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

func onboardingDoc() schema.Document {
	return schema.Document{
		Title: "Kayıt",
		Steps: []schema.Step{
			{
				ID:       "register",
				Required: true,
				Fields: []schema.Field{
					{Name: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
					{Name: "password", Label: "Şifre", Type: schema.FieldTypePassword, Required: true},
				},
			},
			{
				ID: "business",
				Fields: []schema.Field{
					{Name: "businessName", Label: "İşletme Adı", Required: true},
				},
			},
			{
				ID:        "services",
				Kind:      schema.StepKindCatalog,
				Skippable: true,
				SkipLabel: "Şimdilik atla",
				Fields: []schema.Field{
					{Name: "name", Label: "Hizmet Adı", Required: true},
				},
			},
			{ID: "hours", Kind: schema.StepKindWorkingHours},
		},
	}
}

func fillRegister(c *wizard.Controller) {
	c.Active().SetValue("email", "ayse@example.com")
	c.Active().SetValue("password", "gizli-sifre")
}

func advanceToEnd(t *testing.T, c *wizard.Controller) {
	t.Helper()
	ctx := context.Background()
	fillRegister(c)
	if !c.Next(ctx) {
		t.Fatalf("register step rejected: %v", c.Active().Errors())
	}
	c.Active().SetValue("businessName", "Kuaför Ayşe")
	if !c.Next(ctx) {
		t.Fatalf("business step rejected: %v", c.Active().Errors())
	}
	if !c.Skip(ctx) {
		t.Fatal("services step refused to skip")
	}
	if !c.Next(ctx) {
		t.Fatalf("hours step rejected: %v", c.Active().Errors())
	}
}

func TestNewRequiresSteps(t *testing.T) {
	if _, err := wizard.New(schema.Document{}); err == nil {
		t.Fatal("New() accepted a document without steps")
	}
}

func TestNextRejectsInvalidStep(t *testing.T) {
	c, err := wizard.New(onboardingDoc())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if c.Next(context.Background()) {
		t.Fatal("Next() advanced past an empty required form")
	}
	if c.Index() != 0 {
		t.Fatalf("Index() = %d after rejection", c.Index())
	}
	if got := c.Active().Errors()["email"]; got != "Email zorunludur" {
		t.Fatalf("Errors()[email] = %q", got)
	}
	if c.Authenticated() {
		t.Fatal("rejection flipped the authentication gate")
	}
}

func TestNextRunsSubmissionAndAuthenticates(t *testing.T) {
	var submitted []string
	c, err := wizard.New(onboardingDoc(), wizard.WithSubmit(
		func(ctx context.Context, s schema.Step, values map[string]any) error {
			submitted = append(submitted, s.ID)
			if s.ID == "register" && values["email"] != "ayse@example.com" {
				t.Fatalf("submission payload missing answers: %v", values)
			}
			return nil
		},
	))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	fillRegister(c)
	if !c.Next(context.Background()) {
		t.Fatalf("Next() rejected valid input: %v", c.Active().Errors())
	}
	if c.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", c.Index())
	}
	if !c.Authenticated() {
		t.Fatal("registration success did not authenticate")
	}
	if diff := cmp.Diff([]string{"register"}, submitted); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmissionFailureKeepsStep(t *testing.T) {
	c, _ := wizard.New(onboardingDoc(), wizard.WithSubmit(
		func(ctx context.Context, s schema.Step, values map[string]any) error {
			return errors.New("Bu email adresi zaten kayıtlı")
		},
	))

	fillRegister(c)
	if c.Next(context.Background()) {
		t.Fatal("Next() advanced despite a failed submission")
	}
	if c.Index() != 0 {
		t.Fatalf("Index() = %d, want 0", c.Index())
	}
	if c.Authenticated() {
		t.Fatal("failed registration authenticated the session")
	}
	if got := c.StepError(); got != "Bu email adresi zaten kayıtlı" {
		t.Fatalf("StepError() = %q", got)
	}

	// Entered values survive the failure for the retry.
	if got := c.Active().Value("email"); got != "ayse@example.com" {
		t.Fatalf("Value(email) = %v after failure", got)
	}
}

func TestSkipBypassesValidationAndSubmission(t *testing.T) {
	var submitted []string
	c, _ := wizard.New(onboardingDoc(), wizard.WithSubmit(
		func(ctx context.Context, s schema.Step, values map[string]any) error {
			submitted = append(submitted, s.ID)
			return nil
		},
	))
	ctx := context.Background()

	if c.Skip(ctx) {
		t.Fatal("Skip() worked on a non-skippable step")
	}

	fillRegister(c)
	c.Next(ctx)
	c.Active().SetValue("businessName", "Kuaför Ayşe")
	c.Next(ctx)

	// The catalog step is empty; Next would reject it, Skip must not.
	if !c.Skip(ctx) {
		t.Fatal("Skip() refused a skippable step")
	}
	if c.Index() != 3 {
		t.Fatalf("Index() = %d, want 3", c.Index())
	}
	if diff := cmp.Diff([]string{"register", "business"}, submitted); diff != "" {
		t.Fatalf("skip triggered a submission (-want +got):\n%s", diff)
	}
	if _, exists := c.Values()["catalogItems"]; exists {
		t.Fatal("skipped step wrote to the value bag")
	}
}

func TestJumpToGating(t *testing.T) {
	c, _ := wizard.New(onboardingDoc())
	ctx := context.Background()

	if c.JumpTo(1) {
		t.Fatal("JumpTo(1) allowed before authentication")
	}
	if !c.JumpTo(0) {
		t.Fatal("JumpTo(0) must always succeed")
	}

	fillRegister(c)
	c.Next(ctx) // index 1, authenticated

	if !c.JumpTo(2) {
		t.Fatal("JumpTo(current+1) refused after authentication")
	}
	if c.JumpTo(-1) || c.JumpTo(99) {
		t.Fatal("JumpTo accepted an out-of-range target")
	}
	if !c.JumpTo(0) {
		t.Fatal("JumpTo(0) refused after moving forward")
	}
	if c.Index() != 0 {
		t.Fatalf("Index() = %d, want 0", c.Index())
	}
	// From the first step only the next one is reachable, even when
	// authenticated.
	if c.JumpTo(2) {
		t.Fatal("JumpTo skipped ahead more than one step")
	}
	if !c.JumpTo(1) {
		t.Fatal("JumpTo(1) refused while authenticated")
	}
}

func TestBackPreservesValues(t *testing.T) {
	c, _ := wizard.New(onboardingDoc())
	ctx := context.Background()

	if c.Back() {
		t.Fatal("Back() moved before the first step")
	}

	fillRegister(c)
	c.Next(ctx)
	c.Active().SetValue("businessName", "Kuaför Ayşe")

	if !c.Back() {
		t.Fatal("Back() refused to move")
	}
	if c.Index() != 0 {
		t.Fatalf("Index() = %d, want 0", c.Index())
	}
	if got := c.Active().Value("email"); got != "ayse@example.com" {
		t.Fatalf("Value(email) = %v after Back()", got)
	}
	// The later step's answer stays in the bag too.
	if got := c.Values()["businessName"]; got != "Kuaför Ayşe" {
		t.Fatalf("Values()[businessName] = %v", got)
	}
}

func TestCompletion(t *testing.T) {
	var final map[string]any
	c, _ := wizard.New(onboardingDoc(), wizard.WithCompletion(
		func(values map[string]any) { final = values },
	))

	advanceToEnd(t, c)

	if !c.Completed() {
		t.Fatal("wizard not completed after the last step")
	}
	if final == nil {
		t.Fatal("completion callback never fired")
	}
	if final["email"] != "ayse@example.com" {
		t.Fatalf("completion values = %v", final)
	}
	if _, ok := final["workingHours"]; !ok {
		t.Fatal("completion values missing the schedule")
	}

	// A finished wizard is inert.
	if c.Next(context.Background()) || c.Back() || c.JumpTo(0) || c.Skip(context.Background()) {
		t.Fatal("completed wizard still navigates")
	}
}

func TestReentrantTransitionsAreDropped(t *testing.T) {
	var c *wizard.Controller
	nested := map[string]bool{}
	c, _ = wizard.New(onboardingDoc(), wizard.WithSubmit(
		func(ctx context.Context, s schema.Step, values map[string]any) error {
			if s.ID != "services" {
				return nil
			}
			// Transitions while a submission is in flight must be dropped,
			// not queued. The services step is skippable and sits past index
			// 0, so only the in-flight gate can refuse Skip and Back here.
			nested["next"] = c.Next(ctx)
			nested["skip"] = c.Skip(ctx)
			nested["back"] = c.Back()
			return nil
		},
	))

	ctx := context.Background()
	fillRegister(c)
	if !c.Next(ctx) {
		t.Fatalf("register step rejected: %v", c.Active().Errors())
	}
	c.Active().SetValue("businessName", "Kuaför Ayşe")
	if !c.Next(ctx) {
		t.Fatalf("business step rejected: %v", c.Active().Errors())
	}
	c.Active().SetDraft("name", "Saç Kesimi")
	if err := c.Active().AddItem(); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if !c.Next(ctx) {
		t.Fatalf("services step rejected: %v", c.Active().Errors())
	}

	for _, op := range []string{"next", "skip", "back"} {
		if nested[op] {
			t.Fatalf("nested %s was not dropped", op)
		}
	}
	if c.Index() != 3 {
		t.Fatalf("Index() = %d, want 3", c.Index())
	}
}

func TestChangeEmitter(t *testing.T) {
	var deltas []map[string]any
	c, _ := wizard.New(onboardingDoc(), wizard.WithChangeEmitter(
		func(delta map[string]any) { deltas = append(deltas, delta) },
	))

	c.Active().SetValue("email", "ayse@example.com")
	if len(deltas) != 1 {
		t.Fatalf("emitted %d deltas, want 1", len(deltas))
	}
	if diff := cmp.Diff(map[string]any{"email": "ayse@example.com"}, deltas[0]); diff != "" {
		t.Fatalf("delta mismatch (-want +got):\n%s", diff)
	}

	// Edits reach the canonical bag immediately.
	if got := c.Values()["email"]; got != "ayse@example.com" {
		t.Fatalf("Values()[email] = %v", got)
	}
}

func TestInitialValues(t *testing.T) {
	seed := map[string]any{"email": "onceki@example.com"}
	c, _ := wizard.New(onboardingDoc(), wizard.WithInitialValues(seed))

	if got := c.Active().Value("email"); got != "onceki@example.com" {
		t.Fatalf("Value(email) = %v", got)
	}

	// The seed map is copied, not referenced.
	seed["email"] = "degisti@example.com"
	if got := c.Values()["email"]; got != "onceki@example.com" {
		t.Fatalf("Values()[email] = %v after mutating the seed", got)
	}
}

func TestValuesReturnsDeepCopy(t *testing.T) {
	c, _ := wizard.New(onboardingDoc())
	c.Active().SetValue("email", "ayse@example.com")

	values := c.Values()
	values["email"] = "tampered"
	if got := c.Values()["email"]; got != "ayse@example.com" {
		t.Fatal("Values() exposed internal storage")
	}
}
