package colorinput

// Presets is the swatch palette, laid out ten per popover row.
var Presets = [20]string{
	"#ffffff", "#f8f9fa", "#dee2e6", "#adb5bd", "#6c757d",
	"#343a40", "#212529", "#000000", "#e03131", "#c2255c",
	"#9c36b5", "#6741d9", "#3b5bdb", "#1971c2", "#0c8599",
	"#099268", "#2f9e44", "#66a80f", "#f08c00", "#e8590c",
}

const presetsPerRow = 10
