package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

const structurePrompt = `You are a procurement assistant. Extract a structured purchase request from the text below.

Rules:
- "originalText" must be exactly the original user text.
- List every distinct requested item with a short name, a high-level category and an integer quantity.
- Put technical details (RAM, screen size, ports, cable length and its unit, ...) into "specs" as key/value pairs.
- Use null for budget, deliveryDays, paymentTerms or warrantyMonths when the text does not mention them.
- Do NOT invent details that are not present in the text.

Text:
%s`

const emailPrompt = `You are an assistant that writes professional Request for Quote (RFQ) emails for vendors.

You are given a structured RFP JSON object. Using ONLY this data, write an RFQ email that a vendor can easily understand.

Requirements:
- Use a clear, professional tone.
- Explain briefly what is being requested (use items + originalText to infer).
- Mention budget (if present), delivery timeline, payment terms, and warranty in natural language.
- List requested items in a readable way (numbered list or bullets).
- End with a short call to action (ask them to send a quote) and a polite sign-off.
- Do NOT invent details not present in the JSON (no company names, no dates unless mentioned).
%s
Return ONLY a JSON object with this exact shape:
{
  "subject": "string",
  "body": "string"
}

Here is the structured RFP JSON:
%s`

const summaryPrompt = `You are helping a procurement team understand vendor email responses to RFPs.

Given the raw email text below, extract the MOST IMPORTANT commercial details and write a concise summary in plain text.

Focus especially on:
- Price / pricing details
- Currency
- Payment terms
- Delivery timeline
- Warranty / support
- Key terms & conditions
- Important assumptions, exclusions, or limitations

Format your answer like:

Vendor: <email>
Subject: <subject>

Price: ...
Currency: ...
Payment terms: ...
Delivery timeline: ...
Warranty / support: ...
Key terms & conditions:
- ...
Assumptions / exclusions:
- ...
Other notes:
- ...

If some information is not mentioned, write "Not specified" for that field.

Return ONLY this summary text, no JSON, no markdown, no extra commentary.

Vendor email: %s
Subject: %s

Email body:
%s`

const comparisonPrompt = `You are helping a procurement manager compare vendor proposals.

RFP (original):
%s

RFP (structured JSON):
%s

Vendor replies:
%s

Generate a clear comparison between vendors and a recommendation.

Return ONLY valid HTML, no backticks, no explanations outside HTML.
The HTML must follow this structure:

1. A short heading and paragraph (overall summary).
2. A comparison table with a header row and one row per vendor.
   Columns:
   - Vendor
   - Pricing
   - Terms
   - Completeness of Response
   - Overall Score (0-100)
   - Key Notes
3. A final section titled "Recommendation" that clearly answers:
   - Which vendor should we go with?
   - Why?

Use simple semantic HTML like:

<h2>...</h2>
<p>...</p>
<table>...</table>
<h3>Recommendation</h3>
<p>...</p>
<ul>...</ul>`

func buildStructurePrompt(userText string) string {
	return fmt.Sprintf(structurePrompt, userText)
}

func buildEmailPrompt(structured any, sender Sender) (string, error) {
	raw, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return "", err
	}

	var signature string
	switch {
	case sender.Name != "" && sender.Company != "":
		signature = fmt.Sprintf("- The sender details are %s, company - %s.\n", sender.Name, sender.Company)
	case sender.Name != "":
		signature = fmt.Sprintf("- The sender is %s.\n", sender.Name)
	case sender.Company != "":
		signature = fmt.Sprintf("- The sending company is %s.\n", sender.Company)
	}
	return fmt.Sprintf(emailPrompt, signature, raw), nil
}

func buildSummaryPrompt(from, subject, body string) string {
	return fmt.Sprintf(summaryPrompt, from, subject, body)
}

func buildComparisonPrompt(originalText string, structured any, replies []VendorReply) (string, error) {
	rawRfp, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return "", err
	}
	rawReplies, err := json.MarshalIndent(replies, "", "  ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(originalText) == "" {
		originalText = "N/A"
	}
	return fmt.Sprintf(comparisonPrompt, originalText, rawRfp, rawReplies), nil
}
