package inference

import (
	"fmt"
	"strings"
	"time"
)

const scheduleSystemPrompt = `You are an expert at reading and parsing triathlon training schedules from images.
Extract all workout information you can see and return a JSON object.

Return ONLY valid JSON with this structure:
{
  "startDate": "YYYY-MM-DD or null",
  "endDate": "YYYY-MM-DD or null",
  "weeks": number or null,
  "workouts": [
    {
      "date": "YYYY-MM-DD",
      "discipline": "swim|bike|run|strength|brick|rest",
      "title": "Brief workout title",
      "description": "Full workout description",
      "duration": minutes as number or null,
      "distance": kilometers as number or null,
      "intensity": "easy|moderate|hard|race|recovery" or null
    }
  ]
}

Guidelines:
- Today's date is %s. Parse dates relative to today if only day names are given.
- Convert all distances to kilometers (1 mile = 1.60934 km).
- Convert all durations to minutes.
- Identify discipline from keywords: swim/pool, bike/cycle/ride, run/jog, weights/strength/gym.
- "Brick" means combined bike+run workout.
- Rest days should be included with discipline "rest".
- If you can't determine exact dates, estimate based on week structure starting from the nearest Monday.
- Return ONLY the JSON object, no markdown fences or other text.`

const scheduleUserPrompt = "Read this training plan image and extract all workouts into the JSON format specified."

// ParseHints anchor the model's date guesses. Zero values are omitted from the prompt.
type ParseHints struct {
	Today      time.Time
	StartDate  string
	RaceDate   string
	Weeks      int
	ImageIndex int // 1-based
	ImageCount int
}

func (h ParseHints) systemPrompt() string {
	today := h.Today
	if today.IsZero() {
		today = time.Now()
	}
	prompt := fmt.Sprintf(scheduleSystemPrompt, today.UTC().Format("2006-01-02"))

	var extra []string
	if h.StartDate != "" {
		extra = append(extra, fmt.Sprintf("- Week 1 Day 1 is %s (Monday). Date every workout relative to it.", h.StartDate))
	}
	if h.RaceDate != "" {
		extra = append(extra, fmt.Sprintf("- Race day is %s.", h.RaceDate))
	}
	if h.Weeks > 0 {
		extra = append(extra, fmt.Sprintf("- The plan lasts %d weeks.", h.Weeks))
	}
	if len(extra) == 0 {
		return prompt
	}
	return prompt + "\n" + strings.Join(extra, "\n")
}

func (h ParseHints) userPrompt() string {
	if h.ImageCount > 1 && h.ImageIndex > 0 {
		return fmt.Sprintf("%s This is image %d of %d of the same plan.", scheduleUserPrompt, h.ImageIndex, h.ImageCount)
	}
	return scheduleUserPrompt
}
