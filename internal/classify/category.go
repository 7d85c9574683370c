package classify

import "fmt"

// Category is an output category. The declaration order is the
// classification priority.
type Category int

const (
	CameraRoll Category = iota
	SMSAttachment
)

type categoryInfo struct {
	key      string
	label    string
	logType  string
	listName string
}

var categoryInfos = [...]categoryInfo{
	CameraRoll:    {key: "camera_roll", label: "CameraRoll", logType: "CameraRoll", listName: "photosCameraRoll.csv"},
	SMSAttachment: {key: "sms", label: "iMessage", logType: "SMS", listName: "photosSMS.csv"},
}

// Categories returns every category in priority order.
func Categories() []Category {
	return []Category{CameraRoll, SMSAttachment}
}

func (c Category) valid() bool {
	return c >= CameraRoll && int(c) < len(categoryInfos)
}

// String returns the configuration key of the category.
func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryInfos[c].key
}

// Label is the folder name used by the type-scoped layouts.
func (c Category) Label() string {
	if !c.valid() {
		return ""
	}
	return categoryInfos[c].label
}

// LogType is the type column written to the not-found and failure logs.
func (c Category) LogType() string {
	if !c.valid() {
		return ""
	}
	return categoryInfos[c].logType
}

// ListName is the CSV file the classified list is exported to.
func (c Category) ListName() string {
	if !c.valid() {
		return ""
	}
	return categoryInfos[c].listName
}

// MarshalText renders the configuration key so categories read naturally in
// JSON output and map keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
