package session

// RestLevel is the bar height shown while nobody is speaking.
const RestLevel = 4.0

const audioBars = 5

// AudioActivity drives one speaking indicator.
type AudioActivity struct {
	Active bool               `json:"active"`
	Levels [audioBars]float64 `json:"levels"`
}

func restingAudio() AudioActivity {
	var a AudioActivity
	for i := range a.Levels {
		a.Levels[i] = RestLevel
	}
	return a
}

func (a *AudioActivity) rest() {
	*a = restingAudio()
}

// fill sets every bar to base + r.Float64()*span.
func (a *AudioActivity) fill(r Rand, base, span float64) {
	for i := range a.Levels {
		a.Levels[i] = base + r.Float64()*span
	}
}
