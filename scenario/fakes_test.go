package scenario_test

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/networkteam/playground/browser"
	"github.com/networkteam/playground/browser/browsertest"
)

// playgroundSession returns a fake session with one handler per playground page used by the
// scenarios. Delays are scaled down to milliseconds.
func playgroundSession() *browsertest.Session {
	s := browsertest.NewSession()

	s.Handle("/sampleapp", func(s *browsertest.Session) {
		user := s.Add("input[name='UserName']", browsertest.NewElement())
		password := s.Add("input[name='Password']", browsertest.NewElement())
		status := s.Add("#loginstatus", browsertest.NewElement().WithText("User logged out."))
		s.Add("#login", browsertest.NewElement().WithText("Log In").OnClick(func(*browsertest.Element) {
			name, _ := user.Value()
			pwd, _ := password.Value()
			if pwd == "pwd" {
				status.SetText("Welcome, " + name + "!")
			} else {
				status.SetText("Invalid username/password")
			}
		}))
		s.Add("#logout", browsertest.NewElement().WithText("Log Out").OnClick(func(*browsertest.Element) {
			status.SetText("User logged out.")
		}))
	})

	s.Handle("/dynamicid", func(s *browsertest.Session) {
		s.Add("button.btn.btn-primary", browsertest.NewElement().WithText("Button with Dynamic ID"))
	})

	s.Handle("/classattr", func(s *browsertest.Session) {
		s.Add("button.btn.btn-primary", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			s.OpenAlert("Primary button pressed")
		}))
	})

	s.Handle("/hiddenlayers", func(s *browsertest.Session) {
		s.Add("#greenButton", browsertest.NewElement().OnClick(func(el *browsertest.Element) {
			el.SetBlocked(true)
		}))
	})

	s.Handle("/loaddelay", func(s *browsertest.Session) {
		button := s.Add("button.btn.btn-primary", browsertest.NewElement().Hidden())
		time.AfterFunc(20*time.Millisecond, func() { button.SetVisible(true) })
	})

	s.Handle("/ajax", func(s *browsertest.Session) {
		s.Add("#ajaxButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			time.AfterFunc(30*time.Millisecond, func() {
				s.Add("#content p", browsertest.NewElement().WithText("Data loaded with AJAX get request."))
			})
		}))
	})

	s.Handle("/clientdelay", func(s *browsertest.Session) {
		s.Add("#ajaxButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			time.AfterFunc(30*time.Millisecond, func() {
				s.Add("#content p", browsertest.NewElement().WithText("Data calculated on the client side."))
			})
		}))
	})

	s.Handle("/textinput", func(s *browsertest.Session) {
		input := s.Add("#newButtonName", browsertest.NewElement())
		s.Add("#updatingButton", browsertest.NewElement().WithText("Button That Should Change it's Name Based on Input Value").OnClick(func(el *browsertest.Element) {
			if name, _ := input.Value(); name != "" {
				el.SetText(name)
			}
		}))
	})

	s.Handle("/scrollbars", func(s *browsertest.Session) {
		s.Add("#hidingButton", browsertest.NewElement().WithText("Hiding Button"))
	})

	s.Handle("/overlapped", func(s *browsertest.Session) {
		s.Add("#id", browsertest.NewElement())
		s.Add("#name", browsertest.NewElement().WithValue("x"))
	})

	s.Handle("/visibility", func(s *browsertest.Session) {
		hidden := []browser.Locator{"#zeroWidthButton", "#overlappedButton", "#transparentButton", "#invisibleButton", "#notdisplayedButton", "#offscreenButton"}
		for _, locator := range hidden {
			s.Add(locator, browsertest.NewElement())
		}
		s.Add("#removedButton", browsertest.NewElement().WithText("Removed"))
		s.Add("#hideButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			s.Remove("#removedButton")
			for _, locator := range hidden {
				s.Element(locator).SetVisible(false)
			}
		}))
	})

	s.Handle("/click", func(s *browsertest.Session) {
		s.Add("#badButton", browsertest.NewElement().WithAttr("class", "btn btn-primary").OnClick(func(el *browsertest.Element) {
			el.SetAttr("class", "btn btn-success")
		}))
	})

	s.Handle("/progressbar", func(s *browsertest.Session) {
		var stopped atomic.Bool
		bar := s.Add("#progressBar", browsertest.NewElement().WithAttr("aria-valuenow", "25"))
		s.Add("#startButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			go func() {
				for v := 25; v <= 100 && !stopped.Load(); v++ {
					bar.SetAttr("aria-valuenow", strconv.Itoa(v))
					time.Sleep(time.Millisecond)
				}
			}()
		}))
		s.Add("#stopButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			stopped.Store(true)
		}))
	})

	s.Handle("/mouseover", func(s *browsertest.Session) {
		const link browser.Locator = "a#clickMe, a[title='Click me']"
		var count int
		counter := s.Add("#clickCount", browsertest.NewElement().WithText("0"))
		var render func()
		render = func() {
			s.Add(link, browsertest.NewElement().WithText("Click me").
				OnHover(func(*browsertest.Element) {
					// Hovering replaces the link with a new element.
					s.Remove(link)
					render()
				}).
				OnClick(func(*browsertest.Element) {
					count++
					counter.SetText(strconv.Itoa(count))
				}))
		}
		render()
	})

	s.Handle("/shadowdom", func(s *browsertest.Session) {
		field := browsertest.NewElement()
		root := browsertest.NewElement().
			WithChild("#editField", field).
			WithChild("#buttonGenerate", browsertest.NewElement().WithText("Generate").OnClick(func(*browsertest.Element) {
				field.WithValue("5f0e2a4c-7b1d-4c8e-9a3f-2d6b8e1c0f47")
			}))
		s.Add("guid-generator, my-paragraph, #shadowHost, .shadow-root-host", browsertest.NewElement().WithShadowRoot(root))
	})

	s.Handle("/verifytext", func(s *browsertest.Session) {
		s.Add("span.badge-secondary", browsertest.NewElement().WithText("\n    Welcome   UserName!\n  "))
	})

	s.Handle("/disabledinput", func(s *browsertest.Session) {
		input := s.Add("#inputField", browsertest.NewElement().Disabled())
		s.Add("#enableButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			input.SetEnabled(false)
			time.AfterFunc(20*time.Millisecond, func() { input.SetEnabled(true) })
		}))
	})

	s.Handle("/animation", func(s *browsertest.Session) {
		status := s.Add("#opstatus", browsertest.NewElement())
		target := s.Add("#movingTarget", browsertest.NewElement().WithAttr("class", "btn btn-primary").OnClick(func(el *browsertest.Element) {
			status.SetText("Moving Target clicked. It's class name is '" + el.Attrs()["class"] + "'")
		}))
		s.Add("#animationButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			target.SetAttr("class", "btn btn-primary spin")
			time.AfterFunc(20*time.Millisecond, func() { target.SetAttr("class", "btn btn-primary") })
		}))
	})

	s.Handle("/alerts", func(s *browsertest.Session) {
		s.Add("#alertButton", browsertest.NewElement().OnClick(func(*browsertest.Element) {
			s.OpenAlert("Today is a working day.\nOr less likely a holiday.")
		}))
	})

	return s
}
