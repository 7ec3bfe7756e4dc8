package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen registers a global hotkey and invokes callback when the full
// combination is pressed. The callback only posts a message to the event
// loop; the toggle itself runs there.
func Listen(hotkeyConfig string, callback func()) {
	keys := parseHotkey(hotkeyConfig)
	log.Printf("Parsed hotkey configuration: %v", keys)

	type keyState struct {
		name     string
		rawcodes []uint16
		pressed  bool
	}

	var keyStates []keyState
	for _, keyName := range keys {
		rawcodes := keyNameToRawcodes(keyName)
		if len(rawcodes) == 0 {
			log.Printf("ERROR: Cannot map key '%s' to rawcodes, hotkey may not work correctly", keyName)
			continue
		}
		keyStates = append(keyStates, keyState{name: keyName, rawcodes: rawcodes})
	}

	if len(keyStates) == 0 {
		log.Printf("ERROR: No valid keys in hotkey configuration '%s'", hotkeyConfig)
		return
	}

	log.Printf("Hotkey listener configured for: %s", hotkeyConfig)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		var mu sync.Mutex

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}

		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}

			if ev.Kind == gohook.KeyDown {
				mu.Lock()
				for i := range keyStates {
					for _, rawcode := range keyStates[i].rawcodes {
						if ev.Rawcode == rawcode {
							keyStates[i].pressed = true
							break
						}
					}
				}

				allPressed := true
				for i := range keyStates {
					if !keyStates[i].pressed {
						allPressed = false
						break
					}
				}

				if allPressed {
					log.Printf("Hotkey combination detected: %s", hotkeyConfig)
					for i := range keyStates {
						keyStates[i].pressed = false
					}
					mu.Unlock()
					if callback != nil {
						callback()
					}
				} else {
					mu.Unlock()
				}
			} else {
				mu.Lock()
				for i := range keyStates {
					for _, rawcode := range keyStates[i].rawcodes {
						if ev.Rawcode == rawcode {
							keyStates[i].pressed = false
							break
						}
					}
				}
				mu.Unlock()
			}
		}
		log.Printf("Hotkey event channel closed")
	}()
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+s" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl":
			keys = append(keys, "ctrl")
		case "alt":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "super":
			keys = append(keys, "super")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

// keyNameToRawcodes maps a key name to the X11 keysym rawcodes gohook
// reports on Linux. Modifiers return both left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{65507, 65508} // XK_Control_L, XK_Control_R
	case "alt":
		return []uint16{65513, 65514} // XK_Alt_L, XK_Alt_R
	case "shift":
		return []uint16{65505, 65506} // XK_Shift_L, XK_Shift_R
	case "win", "cmd", "super":
		return []uint16{65515, 65516} // XK_Super_L, XK_Super_R
	}

	// Letters and digits: keysym equals the ASCII code of the lowercase
	// character.
	if len(keyName) == 1 {
		c := keyName[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return []uint16{uint16(c)}
		}
	}

	switch keyName {
	case "f1":
		return []uint16{65470}
	case "f2":
		return []uint16{65471}
	case "f3":
		return []uint16{65472}
	case "f4":
		return []uint16{65473}
	case "f5":
		return []uint16{65474}
	case "f6":
		return []uint16{65475}
	case "f7":
		return []uint16{65476}
	case "f8":
		return []uint16{65477}
	case "f9":
		return []uint16{65478}
	case "f10":
		return []uint16{65479}
	case "f11":
		return []uint16{65480}
	case "f12":
		return []uint16{65481}

	case "space":
		return []uint16{32}
	case "enter", "return":
		return []uint16{65293} // XK_Return
	case "esc", "escape":
		return []uint16{65307} // XK_Escape
	case "tab":
		return []uint16{65289} // XK_Tab
	case "backspace":
		return []uint16{65288} // XK_BackSpace
	case "delete", "del":
		return []uint16{65535} // XK_Delete
	case "insert", "ins":
		return []uint16{65379} // XK_Insert
	case "home":
		return []uint16{65360} // XK_Home
	case "end":
		return []uint16{65367} // XK_End
	case "pageup", "pgup":
		return []uint16{65365} // XK_Page_Up
	case "pagedown", "pgdn":
		return []uint16{65366} // XK_Page_Down

	case "left":
		return []uint16{65361}
	case "up":
		return []uint16{65362}
	case "right":
		return []uint16{65363}
	case "down":
		return []uint16{65364}

	default:
		log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
		return nil
	}
}
