package Api

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"
)

// ImageRef is one displayable attachment extracted from a record's
// passthrough bag.
type ImageRef struct {
	URL   string
	Label string
}

var httpURL = regexp.MustCompile(`(?i)^https?://`)

var singleImageFields = []struct {
	Key   string
	Label string
}{
	{"preMeterImg", "Pre Meter"},
	{"preMeterImage", "Pre Meter"},
	{"pre_odometer_image", "Pre Meter"},
	{"postMeterImg", "Post Meter"},
	{"postMeterImage", "Post Meter"},
	{"post_odometer_image", "Post Meter"},
	{"fuelMeterImg", "Fuel Meter"},
	{"fuelMeterImage", "Fuel Meter"},
}

var arrayImageFields = []struct {
	Key   string
	Label string
}{
	{"preImages", "Pre"},
	{"postImages", "Post"},
	{"fuelImages", "Fuel"},
	{"images", "Image"},
	{"attachments", "Attachment"},
	{"photos", "Photo"},
}

// CollectImages walks a record's raw server row and gathers every image URL
// it can find, deduplicated by URL. The canonical fields never come from
// here; this exists purely for gallery display of whatever else the server
// attached.
func CollectImages(extra datatypes.JSON) []ImageRef {
	if len(extra) == 0 {
		return nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(extra, &raw); err != nil {
		return nil
	}

	var found []ImageRef
	for _, field := range singleImageFields {
		if u, ok := raw[field.Key].(string); ok && httpURL.MatchString(u) {
			found = append(found, ImageRef{URL: u, Label: field.Label})
		}
	}

	for _, field := range arrayImageFields {
		items, ok := raw[field.Key].([]interface{})
		if !ok {
			continue
		}
		for i, item := range items {
			label := fmt.Sprintf("%s %d", field.Label, i+1)
			switch v := item.(type) {
			case string:
				if httpURL.MatchString(v) {
					found = append(found, ImageRef{URL: v, Label: label})
				}
			case map[string]interface{}:
				if u := nestedImageURL(v); u != "" {
					found = append(found, ImageRef{URL: u, Label: label})
				}
			}
		}
	}

	seen := make(map[string]bool, len(found))
	deduped := found[:0]
	for _, ref := range found {
		if seen[ref.URL] {
			continue
		}
		seen[ref.URL] = true
		deduped = append(deduped, ref)
	}
	return deduped
}

// nestedImageURL tries the common object shapes: {url}, {image}, {Location},
// {availableSizes:{image}}.
func nestedImageURL(obj map[string]interface{}) string {
	candidates := []string{"url", "image", "Location"}
	for _, key := range candidates {
		if u, ok := obj[key].(string); ok && httpURL.MatchString(u) {
			return u
		}
	}
	if sizes, ok := obj["availableSizes"].(map[string]interface{}); ok {
		if u, ok := sizes["image"].(string); ok && httpURL.MatchString(strings.TrimSpace(u)) {
			return u
		}
	}
	return ""
}
