package backend

// TermSeq identifies a terminal control sequence. The values are Go ordinals;
// the cgo layer maps them to ChafaTermSeq constants in one place.
type TermSeq int

const (
	SeqResetTerminalSoft TermSeq = iota
	SeqResetTerminalHard
	SeqResetAttributes
	SeqClear
	SeqInvertColors
	SeqCursorToTopLeft
	SeqCursorToBottomLeft
	SeqCursorToPos
	SeqCursorUp
	SeqCursorDown
	SeqCursorLeft
	SeqCursorRight
	SeqEnableCursor
	SeqDisableCursor
	SeqEnableWrap
	SeqDisableWrap
	SeqSaveCursorPos
	SeqRestoreCursorPos
	SeqResetScrollingRows
	SeqEnableBold
	SeqSetColorFgDirect
	SeqSetColorBgDirect
	SeqSetColorFgbgDirect
	SeqSetColorFg256
	SeqSetColorBg256
	SeqSetColorFg16
	SeqSetColorBg16
	SeqBeginSixels
	SeqEndSixels
	SeqEnableSixelScrolling
	SeqDisableSixelScrolling
	SeqBeginKittyImmediateImageV1
	SeqEndKittyImage
	SeqBeginITerm2Image
	SeqEndITerm2Image
	SeqBeginScreenPassthrough
	SeqEndScreenPassthrough
	SeqBeginTmuxPassthrough
	SeqEndTmuxPassthrough
	SeqPrimaryDeviceAttributes

	SeqCount
)

var seqNames = [SeqCount]string{
	SeqResetTerminalSoft:          "reset-terminal-soft",
	SeqResetTerminalHard:          "reset-terminal-hard",
	SeqResetAttributes:            "reset-attributes",
	SeqClear:                      "clear",
	SeqInvertColors:               "invert-colors",
	SeqCursorToTopLeft:            "cursor-to-top-left",
	SeqCursorToBottomLeft:         "cursor-to-bottom-left",
	SeqCursorToPos:                "cursor-to-pos",
	SeqCursorUp:                   "cursor-up",
	SeqCursorDown:                 "cursor-down",
	SeqCursorLeft:                 "cursor-left",
	SeqCursorRight:                "cursor-right",
	SeqEnableCursor:               "enable-cursor",
	SeqDisableCursor:              "disable-cursor",
	SeqEnableWrap:                 "enable-wrap",
	SeqDisableWrap:                "disable-wrap",
	SeqSaveCursorPos:              "save-cursor-pos",
	SeqRestoreCursorPos:           "restore-cursor-pos",
	SeqResetScrollingRows:         "reset-scrolling-rows",
	SeqEnableBold:                 "enable-bold",
	SeqSetColorFgDirect:           "set-color-fg-direct",
	SeqSetColorBgDirect:           "set-color-bg-direct",
	SeqSetColorFgbgDirect:         "set-color-fgbg-direct",
	SeqSetColorFg256:              "set-color-fg-256",
	SeqSetColorBg256:              "set-color-bg-256",
	SeqSetColorFg16:               "set-color-fg-16",
	SeqSetColorBg16:               "set-color-bg-16",
	SeqBeginSixels:                "begin-sixels",
	SeqEndSixels:                  "end-sixels",
	SeqEnableSixelScrolling:       "enable-sixel-scrolling",
	SeqDisableSixelScrolling:      "disable-sixel-scrolling",
	SeqBeginKittyImmediateImageV1: "begin-kitty-immediate-image-v1",
	SeqEndKittyImage:              "end-kitty-image",
	SeqBeginITerm2Image:           "begin-iterm2-image",
	SeqEndITerm2Image:             "end-iterm2-image",
	SeqBeginScreenPassthrough:     "begin-screen-passthrough",
	SeqEndScreenPassthrough:       "end-screen-passthrough",
	SeqBeginTmuxPassthrough:       "begin-tmux-passthrough",
	SeqEndTmuxPassthrough:         "end-tmux-passthrough",
	SeqPrimaryDeviceAttributes:    "primary-device-attributes",
}

// Valid reports whether s names a known sequence.
func (s TermSeq) Valid() bool {
	return s >= 0 && s < SeqCount
}

func (s TermSeq) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return seqNames[s]
}
