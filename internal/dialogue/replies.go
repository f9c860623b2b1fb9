package dialogue

import "strings"

// Fixed reply texts of the intake bot. Lookups fall back to the key itself,
// so an unknown category still yields a visible (if unhelpful) answer rather
// than an empty message.

const greetingText = "Hello! How can I assist you today?"

const clarifyText = "I can help you with code compliance issues, permits, or general information about city regulations. What specific information are you looking for?"

const askAnonymityText = "Thank you. Would you like to remain anonymous for this complaint? "

const askHousingContactText = "Thank you. For housing violations, we'll need your contact information to follow up. Could you provide your name and phone number?"

const askHousingDetailsText = "Thank you. Please describe the specific housing issues you're experiencing."

const askDetailsText = "Thank you. Please provide any additional details about the issue that would help our inspector."

const closingText = "\n\nYou can check the status anytime by providing your reference number. Is there anything else I can help you with today?"

// permitDetailQuestions are asked right after the address is collected,
// keyed by permit type. Missing keys fall back to the generic scope question.
var permitDetailQuestions = map[string]string{
	"FNC": "Could you describe the type of fence you'd like to install (height, material)?",
	"GAR": "What dates are you planning to hold the garage sale?",
	"SPE": "Please provide the planned date, time, and estimated number of attendees for your event.",
	"TRE": "Could you describe the condition of the tree and why you believe it needs to be removed?",
}

const permitDetailFallback = "Please describe the scope of work you're planning."

func permitDetailQuestion(permitType string) string {
	if q, ok := permitDetailQuestions[permitType]; ok {
		return q
	}
	return permitDetailFallback
}

// complaintAckTexts acknowledge a filed complaint, keyed by type.
// {address}, {ref} and {filing} are substituted at finalize time.
var complaintAckTexts = map[string]string{
	"HWG": "Thank you. The complaint regarding high weeds/grass at {address} has been lodged {filing}.\n\nReference Number: {ref}\n\nAn inspection will be scheduled, and the property owner will be notified if a violation is confirmed.",
	"JNK": "Thank you. The complaint for the inoperable vehicle at {address} has been filed {filing}.\n\nReference Number: {ref}\n\nWe will investigate and take appropriate action, such as notifying the owner or tagging the vehicle.",
	"CON": "The report for suspected unpermitted construction at {address} has been filed {filing}.\n\nReference Number: {ref}\n\nAn inspector will visit the site to determine if permits are required and if work is proceeding accordingly.",
	"NSE": "Complaint recorded {filing} for noise violation at {address}.\n\nReference Number: {ref}\n\nWe will alert the appropriate enforcement team for investigation.",
	"SUB": "A high-priority complaint has been filed regarding housing conditions at {address}.\n\nReference Number: {ref}\n\nAn inspector will be scheduled to visit within 1-2 business days due to the nature of the complaint. They will contact you using the provided information.",
	"DMP": "Report filed for illegal dumping at {address}.\n\nReference Number: {ref}\n\nI will notify both the sanitation department and code enforcement for cleanup and investigation.",
	"SGN": "Complaint filed {filing} regarding potentially non-compliant signage/fencing at {address}.\n\nReference Number: {ref}\n\nAn inspector will check the situation against our ordinances.",
}

// permitAckTexts acknowledge a started permit application, keyed by type.
var permitAckTexts = map[string]string{
	"FNC": "I've started your fence permit application for {address}.\n\nReference Number: {ref}\n\nYou will need to submit:\n- Completed application form\n- Simple site plan showing fence location\n- Fence specifications (height, material)\n\nWould you like me to email you the full application package?",
	"GAR": "Your garage sale permit for {address} has been processed.\n\nReference Number: {ref}\n\nPlease remember:\n- Signs must be on private property only\n- Remove all signs after the sale\n- Sales limited to 3 days maximum",
	"SPE": "Special event permit application started for {address}.\n\nReference Number: {ref}\n\nYou will need to provide:\n- Detailed site plan\n- Traffic control plan\n- Neighbor notifications\nWould you like the full application package emailed to you?",
	"HOM": "Home improvement permit application initiated for {address}.\n\nReference Number: {ref}\n\nBased on your description, you'll need to submit:\n- Detailed plans\n- Contractor information\n- Specific scope of work\n\nWould you like me to email you the application package?",
	"TRE": "Tree removal permit application started for {address}.\n\nReference Number: {ref}\n\nNext steps:\n- City arborist will need to inspect the tree\n- Photos of the tree's condition are helpful\n- Replacement tree may be required\n\nWould you like the full application package emailed to you?",
}

// ackText renders the finalization acknowledgement for a report.
func ackText(code, address, ref string, isPermit, anonymous bool) string {
	texts := complaintAckTexts
	if isPermit {
		texts = permitAckTexts
	}
	t, ok := texts[code]
	if !ok {
		t = code
	}
	filing := "anonymously"
	if !anonymous {
		filing = "with your contact information"
	}
	r := strings.NewReplacer("{address}", address, "{ref}", ref, "{filing}", filing)
	return r.Replace(t) + closingText
}
