package indicator

import "ledz-go/bus"

const domain = "led"

// Verbs accepted on led/<id>/control/<verb>.
const (
	VerbCreate     = "create"
	VerbDestroy    = "destroy"
	VerbOn         = "on"
	VerbOff        = "off"
	VerbToggle     = "toggle"
	VerbSet        = "set"
	VerbBlink      = "blink"
	VerbBrightness = "brightness"
	VerbGet        = "get"
)

func TopicConfig() bus.Topic                 { return bus.T("config", "indicators") }
func TopicState() bus.Topic                  { return bus.T(domain, "state") }
func TopicValue(id string) bus.Topic         { return bus.T(domain, id, "value") }
func TopicControl(id, verb string) bus.Topic { return bus.T(domain, id, "control", verb) }
func ctrlWildcard() bus.Topic                { return bus.T(domain, "+", "control", "+") }
