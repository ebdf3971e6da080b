package services

import (
	"fmt"
	"strings"
)

// BuildDressUpPrompt is the instruction sent after the person and clothing
// images. The first image is always the person.
func BuildDressUpPrompt(width, height int) string {
	return strings.Join([]string{
		`Task: edit the FIRST image, which shows a person. Do not create a new person and do not create a new background.`,
		``,
		`Steps:`,
		`1. Person image: note the exact pose, face, body shape and background. All of these MUST stay as they are.`,
		`2. Clothing images: every image after the first is a clothing item or accessory to put on the person.`,
		`3. Edit: take the original clothing off the person completely, then dress them in the new items so the result looks like a real photograph.`,
		`4. IMPORTANT, no merging: never blend, merge or layer the new items with the original clothes. The original clothes are fully replaced.`,
		`5. IMPORTANT, likeness: the person must be recognisably the same, with no change to the face or body.`,
		`6. Output:`,
		`   - photorealistic image`,
		fmt.Sprintf(`   - exactly %dx%d pixels`, width, height),
	}, "\n")
}
