package dialogue

import (
	"fmt"
	"strings"
)

// Passport FAQ tables. Static knowledge served regardless of dialogue state.

// passportOrder fixes the presentation order of passport types.
var passportOrder = []string{"NORMAL", "JUMBO", "MINOR", "TATKAL"}

var passportTypes = map[string]string{
	"NORMAL": "Normal Passport (36 pages)",
	"JUMBO":  "Jumbo Passport (60 pages)",
	"MINOR":  "Minor Passport (Below 18 years)",
	"TATKAL": "Tatkal Passport (Urgent)",
}

var passportFees = map[string]string{
	"NORMAL": "1500 INR",
	"JUMBO":  "2000 INR",
	"MINOR":  "1000 INR",
	"TATKAL": "3500 INR",
}

var passportProcessingTimes = map[string]string{
	"NORMAL": "30-45 days",
	"JUMBO":  "30-45 days",
	"MINOR":  "30-45 days",
	"TATKAL": "1-3 working days",
}

var passportGeneralDocuments = []string{
	"Proof of Identity (Aadhar Card/PAN Card/Voter ID)",
	"Proof of Address (Utility Bills/Bank Statements)",
	"Birth Certificate or proof of DOB",
	"Recent passport size photographs (4)",
	"Previous passport (if renewal)",
}

var passportMinorDocuments = []string{
	"Parents' passport copies",
	"School ID/Bonafide certificate",
	"Parents' consent form",
}

var passportTatkalDocuments = []string{
	"Verification certificate from specified officials",
	"Additional proof of urgency",
}

// PassportAnswer resolves a passport-related query against the FAQ tables.
// Sub-topic dispatch is keyword based, first match wins.
func PassportAnswer(query string) string {
	switch {
	case containsAny(query, "apply", "how to get"):
		return "Here's how to apply for a passport:\n\n" +
			"1. Visit the official passport portal at passportindia.gov.in\n" +
			"2. Register/Login to the Passport Seva Portal\n" +
			"3. Fill the online application form\n" +
			"4. Schedule an appointment at your nearest Passport Seva Kendra\n" +
			"5. Pay the required fees online\n" +
			"6. Visit the Passport Seva Kendra on your appointment date\n\n" +
			"Would you like to know about:\n" +
			"- Required documents\n" +
			"- Types of passports\n" +
			"- Fees and processing time\n" +
			"Just ask about any of these topics!"

	case containsAny(query, "document", "required"):
		var b strings.Builder
		b.WriteString("Required Documents for Passport:\n\n")
		for _, doc := range passportGeneralDocuments {
			b.WriteString("• " + doc + "\n")
		}
		b.WriteString("\nAdditional documents may be required for:\n" +
			"• Minors (under 18)\n" +
			"• Tatkal (urgent) passports\n" +
			"• Name change cases\n\n" +
			"Would you like specific details for any category?")
		return b.String()

	case containsAny(query, "type", "kind"):
		var b strings.Builder
		b.WriteString("Available Passport Types:\n\n")
		for _, key := range passportOrder {
			b.WriteString("• " + passportTypes[key] + "\n")
			b.WriteString("  - Fee: " + passportFees[key] + "\n")
			b.WriteString("  - Processing Time: " + passportProcessingTimes[key] + "\n\n")
		}
		return b.String()

	case containsAny(query, "fee", "cost", "charge"):
		var b strings.Builder
		b.WriteString("Passport Fees:\n\n")
		for _, key := range passportOrder {
			b.WriteString("• " + passportTypes[key] + ": " + passportFees[key] + "\n")
		}
		b.WriteString("\nNote: Additional charges may apply for verification and processing.")
		return b.String()

	case containsAny(query, "time", "duration", "how long"):
		var b strings.Builder
		b.WriteString("Processing Times:\n\n")
		for _, key := range passportOrder {
			b.WriteString("• " + passportTypes[key] + ": " + passportProcessingTimes[key] + "\n")
		}
		b.WriteString("\nNote: Actual processing time may vary based on verification and document completeness.")
		return b.String()

	case containsAny(query, "minor", "child"):
		var b strings.Builder
		b.WriteString("Minor Passport Requirements:\n\n")
		for _, doc := range passportMinorDocuments {
			b.WriteString("• " + doc + "\n")
		}
		fmt.Fprintf(&b, "\nAdditional Notes:\n"+
			"• Both parents must be present during the appointment\n"+
			"• Birth certificate is mandatory\n"+
			"• Processing time: %s\n"+
			"• Fee: %s", passportProcessingTimes["MINOR"], passportFees["MINOR"])
		return b.String()

	case containsAny(query, "tatkal", "urgent", "emergency"):
		var b strings.Builder
		b.WriteString("Tatkal (Urgent) Passport Information:\n\n")
		fmt.Fprintf(&b, "• Processing Time: %s\n", passportProcessingTimes["TATKAL"])
		fmt.Fprintf(&b, "• Fee: %s\n\n", passportFees["TATKAL"])
		b.WriteString("Additional Requirements:\n")
		for _, doc := range passportTatkalDocuments {
			b.WriteString("• " + doc + "\n")
		}
		return b.String()
	}

	return "I can help you with passport-related information. Please ask about:\n" +
		"• How to apply for a passport\n" +
		"• Required documents\n" +
		"• Types of passports\n" +
		"• Fees and charges\n" +
		"• Processing time\n" +
		"• Minor passport requirements\n" +
		"• Tatkal/Urgent passport"
}
