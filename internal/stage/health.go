package stage

import "strings"

// Health reports whether a stage's external dependencies are usable.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs a Health record explaining what is missing.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}

// NotReady joins the details of every unready entry, or returns "" when all
// are ready.
func NotReady(checks []Health) string {
	var problems []string
	for _, h := range checks {
		if !h.Ready {
			problems = append(problems, h.Name+": "+h.Detail)
		}
	}
	return strings.Join(problems, "; ")
}
