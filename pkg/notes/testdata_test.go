package notes

const photosynthesisNotes = "## Title: Powered by Sunlight\n" +
	"\n" +
	"## Summary & Flowchart\n" +
	"Plants turn light into chemical energy they can store.\n" +
	"This happens in the leaves.\n" +
	"\n" +
	"```text\n" +
	"Light -> Chlorophyll -> Glucose\n" +
	"```\n" +
	"\n" +
	"## Key Takeaways\n" +
	"* Light is the energy source\n" +
	"* Glucose stores the energy\n" +
	"\n" +
	"## Mnemonics\n" +
	"**L**ight **C**reates **G**lucose\n" +
	"\n" +
	"## Quiz Yourself!\n" +
	"```json\n" +
	"[{\"question\":\"What does photosynthesis convert?\",\"answer\":\"Light into chemical energy\"}]\n" +
	"```\n"
