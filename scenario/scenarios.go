package scenario

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/networkteam/playground/browser"
)

const (
	sampleUser     = "Anton"
	samplePassword = "pwd"

	progressTarget = 75
)

func login(env *Env) error {
	if err := env.Type("input[name='UserName']", sampleUser); err != nil {
		return err
	}
	if err := env.Type("input[name='Password']", samplePassword); err != nil {
		return err
	}
	return env.Click("#login")
}

func sampleAppLogin(ctx context.Context, env *Env) error {
	if err := login(env); err != nil {
		return err
	}
	status, err := Await(ctx, env, "login status visible", VisibilityOf(env.Session, "#loginstatus"))
	if err != nil {
		return err
	}
	text, err := status.Text()
	if err != nil {
		return err
	}
	return Equal("login status", "Welcome, "+sampleUser+"!", text)
}

func sampleAppLogout(ctx context.Context, env *Env) error {
	if err := login(env); err != nil {
		return err
	}
	if _, err := Await(ctx, env, "logged in", TextToBe(env.Session, "#loginstatus", "Welcome, "+sampleUser+"!")); err != nil {
		return err
	}
	if err := env.Click("#logout"); err != nil {
		return err
	}
	status, err := Await(ctx, env, "login status visible", VisibilityOf(env.Session, "#loginstatus"))
	if err != nil {
		return err
	}
	text, err := status.Text()
	if err != nil {
		return err
	}
	return Equal("login status", "User logged out.", text)
}

func dynamicID(ctx context.Context, env *Env) error {
	button, err := Await(ctx, env, "button with dynamic ID clickable", Clickable(env.Session, "button.btn.btn-primary"))
	if err != nil {
		return err
	}
	return button.Click()
}

func classAttribute(ctx context.Context, env *Env) error {
	if err := env.Click("button.btn.btn-primary"); err != nil {
		return err
	}
	dialog, err := Await(ctx, env, "alert present", AlertPresent(env.Session))
	if err != nil {
		return err
	}
	return Contains("alert message", strings.ToLower(dialog.Message), "primary")
}

func hiddenLayers(ctx context.Context, env *Env) error {
	green, err := Await(ctx, env, "green button clickable", Clickable(env.Session, "#greenButton"))
	if err != nil {
		return err
	}
	if err := green.Click(); err != nil {
		return err
	}
	outcome, err := green.TryClick()
	if err != nil {
		return err
	}
	return Equal("second click on green button", browser.ClickBlocked, outcome)
}

func loadDelay(ctx context.Context, env *Env) error {
	button, err := Await(ctx, env, "delayed button visible", VisibilityOf(env.Session, "button.btn.btn-primary"))
	if err != nil {
		return err
	}
	visible, err := button.Visible()
	if err != nil {
		return err
	}
	return True("delayed button visible", visible)
}

func ajaxData(ctx context.Context, env *Env) error {
	if err := env.Click("#ajaxButton"); err != nil {
		return err
	}
	label, err := Await(ctx, env, "AJAX data visible", VisibilityOf(env.Session, "#content p"))
	if err != nil {
		return err
	}
	text, err := label.Text()
	if err != nil {
		return err
	}
	return Equal("AJAX data", "Data loaded with AJAX get request.", text)
}

func textInput(ctx context.Context, env *Env) error {
	const name = "Hello"
	if err := env.Type("#newButtonName", name); err != nil {
		return err
	}
	if err := env.Click("#updatingButton"); err != nil {
		return err
	}
	text, err := env.Text("#updatingButton")
	if err != nil {
		return err
	}
	return Equal("button name", name, text)
}

func scrollbars(ctx context.Context, env *Env) error {
	button, err := env.Find("#hidingButton")
	if err != nil {
		return err
	}
	if err := button.ScrollIntoView(); err != nil {
		return err
	}
	return button.Click()
}

func overlapped(ctx context.Context, env *Env) error {
	const input = "abc"
	field, err := env.Find("#name")
	if err != nil {
		return err
	}
	if err := field.ScrollIntoView(); err != nil {
		return err
	}
	if err := field.Clear(); err != nil {
		return err
	}
	if err := field.Type(input); err != nil {
		return err
	}
	value, err := field.Value()
	if err != nil {
		return err
	}
	return Equal("overlapped input value", input, value)
}

func visibility(ctx context.Context, env *Env) error {
	if err := env.Click("#hideButton"); err != nil {
		return err
	}
	_, err := Await(ctx, env, "removed button gone", InvisibilityOf(env.Session, "#removedButton"))
	return err
}

func click(ctx context.Context, env *Env) error {
	button, err := env.Find("#badButton")
	if err != nil {
		return err
	}
	if err := button.Click(); err != nil {
		return err
	}
	class, _, err := button.Attribute("class")
	if err != nil {
		return err
	}
	return Contains("button class", class, "btn-success")
}

func progressBar(ctx context.Context, env *Env) error {
	if err := env.Click("#startButton"); err != nil {
		return err
	}
	reached := func(value string) bool {
		n, err := strconv.Atoi(value)
		return err == nil && n >= progressTarget
	}
	if _, err := Await(ctx, env, fmt.Sprintf("progress at %d%%", progressTarget), AttributeMatches(env.Session, "#progressBar", "aria-valuenow", reached)); err != nil {
		return err
	}
	if err := env.Click("#stopButton"); err != nil {
		return err
	}

	bar, err := env.Find("#progressBar")
	if err != nil {
		return err
	}
	value, _, err := bar.Attribute("aria-valuenow")
	if err != nil {
		return err
	}
	progress, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parsing progress %q: %w", value, err)
	}
	return AtLeast("progress after stop", progressTarget, progress)
}

// mouseOverLink matches the link before and after it is re-rendered on hover.
const mouseOverLink browser.Locator = "a#clickMe, a[title='Click me']"

func mouseOver(ctx context.Context, env *Env) error {
	for range 2 {
		link, err := Await(ctx, env, "link visible", VisibilityOf(env.Session, mouseOverLink))
		if err != nil {
			return err
		}
		if err := link.Hover(); err != nil {
			return err
		}
		link, err = env.Find(mouseOverLink)
		if err != nil {
			return err
		}
		if err := link.Click(); err != nil {
			return err
		}
	}
	_, err := Await(ctx, env, "click count", TextToBe(env.Session, "#clickCount", "2"))
	return err
}

const shadowHost browser.Locator = "guid-generator, my-paragraph, #shadowHost, .shadow-root-host"

func shadowDOM(ctx context.Context, env *Env) error {
	host, err := Await(ctx, env, "shadow host visible", VisibilityOf(env.Session, shadowHost))
	if err != nil {
		return err
	}
	root, err := host.ShadowRoot()
	if err != nil {
		return err
	}
	generate, err := root.Find("#buttonGenerate")
	if err != nil {
		return err
	}
	label, err := generate.Text()
	if err != nil {
		return err
	}
	if err := True("text inside shadow root", strings.TrimSpace(label) != ""); err != nil {
		return err
	}
	if err := generate.Click(); err != nil {
		return err
	}
	field, err := root.Find("#editField")
	if err != nil {
		return err
	}
	guid, err := Await(ctx, env, "generated GUID", ValueMatches(field, func(v string) bool { return v != "" }))
	if err != nil {
		return err
	}
	return Equal("GUID groups", 5, len(strings.Split(guid, "-")))
}

func clientSideDelay(ctx context.Context, env *Env) error {
	if err := env.Click("#ajaxButton"); err != nil {
		return err
	}
	label, err := Await(ctx, env, "client side data visible", VisibilityOf(env.Session, "#content p"))
	if err != nil {
		return err
	}
	text, err := label.Text()
	if err != nil {
		return err
	}
	return Equal("client side data", "Data calculated on the client side.", text)
}

func verifyText(ctx context.Context, env *Env) error {
	text, err := env.Text("span.badge-secondary")
	if err != nil {
		return err
	}
	return Equal("welcome text", "Welcome UserName!", strings.Join(strings.Fields(text), " "))
}

func disabledInput(ctx context.Context, env *Env) error {
	const input = "Playground"
	if err := env.Click("#enableButton"); err != nil {
		return err
	}
	field, err := Await(ctx, env, "input enabled", EnabledState(env.Session, "#inputField"))
	if err != nil {
		return err
	}
	if err := field.Clear(); err != nil {
		return err
	}
	if err := field.Type(input); err != nil {
		return err
	}
	value, err := field.Value()
	if err != nil {
		return err
	}
	return Equal("input value", input, value)
}

func animatedButton(ctx context.Context, env *Env) error {
	if err := env.Click("#animationButton"); err != nil {
		return err
	}
	settled := func(class string) bool { return !strings.Contains(class, "spin") }
	if _, err := Await(ctx, env, "animation finished", AttributeMatches(env.Session, "#movingTarget", "class", settled)); err != nil {
		return err
	}
	if err := env.Click("#movingTarget"); err != nil {
		return err
	}
	status, err := env.Text("#opstatus")
	if err != nil {
		return err
	}
	if err := Contains("operation status", status, "Moving Target clicked"); err != nil {
		return err
	}
	return True("clicked target not spinning", !strings.Contains(status, "spin"))
}

func alerts(ctx context.Context, env *Env) error {
	if err := env.Click("#alertButton"); err != nil {
		return err
	}
	dialog, err := Await(ctx, env, "alert present", AlertPresent(env.Session))
	if err != nil {
		return err
	}
	return Contains("alert message", dialog.Message, "Today is a working day.")
}
