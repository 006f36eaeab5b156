package bandarmology

// DefaultSmartMoneyCodes lists IDX broker codes treated as informed money:
// large local institutional desks plus the major foreign desks. Foreign
// participation is additionally detected through the broker type, so this
// table only needs codes whose type the upstream reports as local.
var DefaultSmartMoneyCodes = []string{
	"AK", // UBS Sekuritas Indonesia
	"BK", // J.P. Morgan Sekuritas Indonesia
	"CC", // Mandiri Sekuritas
	"CS", // Credit Suisse Sekuritas Indonesia
	"DB", // Deutsche Sekuritas Indonesia
	"DR", // RHB Sekuritas Indonesia
	"KZ", // CLSA Sekuritas Indonesia
	"ML", // Merrill Lynch Sekuritas Indonesia
	"MS", // Morgan Stanley Sekuritas Indonesia
	"RX", // Macquarie Sekuritas Indonesia
	"YP", // Mirae Asset Sekuritas Indonesia
	"YU", // CGS-CIMB Sekuritas Indonesia
	"ZP", // Maybank Sekuritas Indonesia
}
