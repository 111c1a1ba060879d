package validation

import "fmt"

// MessageType tags the status bar message.
type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageError   MessageType = "error"
	MessageWarning MessageType = "warning"
	MessageSuccess MessageType = "success"
)

// MsgEmpty is shown before the first step is added.
const MsgEmpty = "Comienza agregando variables, funciones u operadores"

// StatusMessage is the single line shown under the editor.
type StatusMessage struct {
	Message string      `json:"message"`
	Type    MessageType `json:"type"`
}

// Status derives the status message for a validation result over stepCount
// steps. Errors take priority over warnings.
func Status(res Result, stepCount int) StatusMessage {
	switch {
	case stepCount == 0:
		return StatusMessage{Message: MsgEmpty, Type: MessageInfo}
	case len(res.Errors) > 0:
		return StatusMessage{Message: res.Errors[0], Type: MessageError}
	case len(res.Warnings) > 0 && !res.IsComplete:
		return StatusMessage{Message: res.Warnings[0], Type: MessageWarning}
	case res.CanSave:
		return StatusMessage{Message: fmt.Sprintf("Fórmula válida (%d elementos)", stepCount), Type: MessageSuccess}
	default:
		return StatusMessage{Message: fmt.Sprintf("%d elementos", stepCount), Type: MessageInfo}
	}
}
