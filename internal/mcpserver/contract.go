package mcpserver

// OutlineFormatContract describes the outline format that the conversion
// tools accept and produce.
const OutlineFormatContract = `# Mindsync Outline Format

An outline is plain UTF-8 text, one node per line.

## Rules

1. **Depth is the number of leading tab characters.** Spaces do not indent.
2. A line with no leading tabs is a top-level branch of the mind map.
3. An optional ` + "`" + `-` + "`" + ` marker before the label is stripped, as is surrounding
   whitespace. ` + "`" + `- Groceries` + "`" + ` and ` + "`" + `Groceries` + "`" + ` are the same node.
4. Blank lines are ignored.
5. A line indented deeper than the line before it attaches to the deepest
   open node.
6. The root of the mind map is the pair name, not a line of the outline.

## Output

Outlines regenerated from a mind map are canonical:

- every line carries the ` + "`" + `- ` + "`" + ` marker,
- top-level branches are sorted and separated by one blank line,
- there is no trailing newline.

## Example

` + "```" + `
- Groceries
	- Milk
	- Bread

- Work
	- Review
		- Sync engine
` + "```" + `

Top-level branches take their colors from the configured palette in order,
wrapping around; descendants inherit the color of their branch.
`
