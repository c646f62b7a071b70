package controls

// Key codes read by the controllers.
const (
	KeyW = "KeyW"
	KeyA = "KeyA"
	KeyS = "KeyS"
	KeyD = "KeyD"
	KeyQ = "KeyQ"
	KeyE = "KeyE"
	KeyB = "KeyB"
	KeyR = "KeyR"
	KeyI = "KeyI"
	KeyJ = "KeyJ"
	KeyK = "KeyK"
	KeyL = "KeyL"
	KeyU = "KeyU"
	KeyO = "KeyO"

	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"

	KeySpace         = "Space"
	KeyEnter         = "Enter"
	KeyEscape        = "Escape"
	KeyShiftLeft     = "ShiftLeft"
	KeyShiftRight    = "ShiftRight"
	KeyControlLeft   = "ControlLeft"
	KeyIntlBackslash = "IntlBackslash"

	KeyNumpad1 = "Numpad1"
	KeyNumpad2 = "Numpad2"
	KeyNumpad4 = "Numpad4"
	KeyNumpad5 = "Numpad5"
	KeyNumpad6 = "Numpad6"
	KeyNumpad8 = "Numpad8"
)
