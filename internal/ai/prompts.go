package ai

import (
	"fmt"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

func classifySystemPrompt(product string) string {
	return fmt.Sprintf("You are a %s support ticket classifier. Analyze the ticket and classify it.", product)
}

func classifyUserPrompt(ticketText string) string {
	return fmt.Sprintf(`TICKET:
%s

SEVERITY LEVELS (Support Standard):

S1 - CRITICAL INCIDENT:
Examples: "application is down", "not accessible", "production outage",
"system crash", "data loss", "bots not working", "complete system failure"
Impact: Multiple users affected, production blocked, business stopped

S2 - IMPORTANT INCIDENT:
Examples: "data source not working", "jobs stuck", "cannot login", "access denied",
"rules not running", "connectivity issue", "performance degraded"
Impact: Major functionality broken, workflow impacted, workaround may exist

S3 - REGULAR PROBLEM:
Examples: "how to configure", "question about feature", "documentation request",
"feature request", "minor bug with workaround", "general inquiry"
Impact: Minimal interruption, normal operation continues

TICKET TYPES:
BUG - System error, defect, broken functionality, unexpected behavior
ENHANCEMENT - New feature request, improvement suggestion, capability addition
QUESTION - How-to query, clarification, usage guidance, documentation request
REQUEST - Configuration change, access request, setup assistance, administrative task

CLASSIFICATION RULES:
1. Keywords "down", "not accessible", "error", "crash" → Usually S1 or S2
2. Keywords "stuck", "not working", "access denied" → Usually S2
3. Keywords "how to", "question", "configure", "request" → Usually S3
4. If uncertain between severities, choose the HIGHER severity for safety
5. Type BUG only if something is actually broken/erroring

Respond EXACTLY in this format (no extra text):
SEVERITY: S1
TYPE: BUG
REASONING: Application is completely down affecting production users`, ticketText)
}

func explainSystemPrompt(product string) string {
	return fmt.Sprintf("You are analyzing a support ticket for a %s support agent.", product)
}

func explainUserPrompt(ticketText string) string {
	return fmt.Sprintf(`TICKET:
%s

Task: Explain IN FACTUAL TERMS what the customer is requesting or reporting. This explanation is for the SUPPORT AGENT, not the customer.

Requirements:
- Be factual and objective - state WHAT they're asking for, not how they might be feeling
- Use clear, technical language appropriate for support agents
- Extract the key components: What system/product? What action? What's the goal?
- Keep it to 2-3 sentences maximum
- Do NOT add empathetic language or assumptions about feelings
- Focus on: WHAT is being requested, WHICH system, and WHAT is the desired outcome

Examples:
BAD: "I understand you're frustrated that your account isn't working..."
GOOD: "The customer is requesting decommissioning of an account on the legacy system."

BAD: "It must be difficult to have this issue..."
GOOD: "The customer reports that the application is not accessible, blocking their team from generating reports."

BAD: "I can imagine how this is causing problems..."
GOOD: "The customer is asking how to configure data source connections for their new integration project."

Your factual explanation (2-3 sentences):`, ticketText)
}

func solutionSystemPrompt(product string) string {
	return fmt.Sprintf("You are a %s technical support expert providing a solution.", product)
}

func solutionUserPrompt(ticketText, kbContext string, severity model.Severity, severityName string) string {
	return fmt.Sprintf(`TICKET ISSUE:
%s

PRIORITY: %s - %s

KNOWLEDGE BASE INFORMATION:
%s

Task: Provide a clear, actionable solution based on the knowledge base.

IMPORTANT FORMATTING RULES:
1. Each step MUST be on a NEW LINE
2. Use numbered lists (1., 2., 3., etc.) for sequential steps
3. Add a blank line between major sections
4. Keep each step clear and concise
5. If there are sub-steps, indent them with "   - " (3 spaces + dash)

Format your response as:

**IMMEDIATE SOLUTION:**

1. First step here
   - Sub-step if needed
   - Another sub-step

2. Second step here

3. Third step here

**REFERENCE DOCUMENTATION:**
[Mention relevant articles or documentation]

**VERIFICATION:**
[How to confirm the issue is resolved]

If knowledge base doesn't have complete solution, say: "Based on available documentation, I recommend consulting with our engineering team for the most accurate resolution. I will escalate this and update you shortly."

Your solution:`, ticketText, severity, severityName, kbContext)
}

const frSystemPrompt = "You are a product manager creating a Future Request (FR) summary."

func frUserPrompt(ticketText string) string {
	return fmt.Sprintf(`ENHANCEMENT REQUEST:
%s

Create a structured FR summary for the product backlog.

Format:

**FR TITLE:**
[Short, descriptive title]

**BUSINESS JUSTIFICATION:**
[Why is this needed? What problem does it solve?]

**DETAILED DESCRIPTION:**
[What exactly is being requested?]

**EXPECTED BENEFIT:**
[How will this improve the product/user experience?]

**PRIORITY RECOMMENDATION:**
[Hotlist (Critical) / Sprint (High) / Backlog (Low) - with brief reasoning]

Your FR summary:`, ticketText)
}

func answerSystemPrompt(product string) string {
	return fmt.Sprintf("You are a %s support expert answering a follow-up question.", product)
}

func answerWithKBPrompt(question, ticketContext, kbContext string) string {
	return fmt.Sprintf(`ORIGINAL TICKET CONTEXT:
%s

KNOWLEDGE BASE:
%s

FOLLOW-UP QUESTION: %s

CRITICAL FORMATTING REQUIREMENTS:
1. Each step or point MUST be on a SEPARATE LINE
2. Use numbered lists (1., 2., 3., etc.) for sequential steps
3. Use bullet points (•) for non-sequential items
4. Add a blank line between major sections
5. Keep explanations clear and well-structured
6. For step-by-step guides, break down EACH step on a new line

EXAMPLE FORMAT (Follow this exactly):

**Creating an Agent:**

1. Navigate to the Sources Detail page
   • Any Source with Chat Enabled will have the Agent Tab

2. Click on the "Agents" tab

3. Click on "Create Agent" button

4. Configure the agent settings
   • Select tables from Available Tables
   • Set up detailed question parameters

Provide a clear, helpful answer using the knowledge base information. Put EACH step on its own line with proper numbering.

Answer:`, ticketContext, kbContext, question)
}

func answerWithoutKBPrompt(question, ticketContext, product string) string {
	return fmt.Sprintf(`ORIGINAL TICKET CONTEXT:
%s

FOLLOW-UP QUESTION: %s

CRITICAL FORMATTING REQUIREMENTS:
1. Each step or point MUST be on a SEPARATE LINE
2. Use numbered lists (1., 2., 3., etc.) for sequential steps
3. Use bullet points (•) for non-sequential items
4. Add a blank line between major sections
5. Keep explanations clear and well-structured

Provide a clear, helpful answer based on your %s product knowledge. Put EACH step on its own line.

Answer:`, ticketContext, question, product)
}
