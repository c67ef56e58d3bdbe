package mcpserver

// RelationshipFormatContract describes how decision records declare their
// relationships so that LLM consumers can write records the validator
// understands and fix the findings it reports.
const RelationshipFormatContract = `# ADR Relationship Format Contract

Every decision record declares its relationships to other records in a
dedicated section. The validator reads nothing else from the body.

## Structure

` + "```" + `markdown
# ADR-0002: Adopt structured tracing

## Relationships

**Depends On**:
- ADR-0001 (logging baseline)

**Superseded By**:
- ADR-0003

**Related**:
- ADR-0007
` + "```" + `

## Rules

1. **File names** contain the identifier: ` + "`" + `ADR-0002-structured-tracing.md` + "`" + `.
   Files without one are ignored, as are README files, templates, anything
   under ` + "`" + `proposals/` + "`" + `, and guides or checklists (by front-matter ` + "`" + `type` + "`" + `
   or, without front matter, by file name).
2. **Section heading** is ` + "`" + `## Relationships` + "`" + ` or ` + "`" + `## 关系` + "`" + ` (an ` + "`" + `ADR ` + "`" + ` prefix
   is allowed). It ends at the next heading of the same or a higher level.
3. **Labels** are bold and start a line:

   | English           | Chinese  | Meaning                      |
   |-------------------|----------|------------------------------|
   | **Depends On**    | **依赖**   | this record needs the target |
   | **Depended By**   | **被依赖**  | the target needs this record |
   | **Supersedes**    | **替代**   | this record replaces target  |
   | **Superseded By** | **被替代**  | the target replaces this one |
   | **Related**       | **相关**   | informational only           |
   | **Inherits**      | **继承**   | this record refines target   |
   | **Inherited By**  | **被继承**  | the target refines this one  |

4. **Targets** are list items (` + "`" + `-` + "`" + `, ` + "`" + `*` + "`" + ` or ` + "`" + `+` + "`" + `) under a label. Every
   ` + "`" + `ADR-<digits>` + "`" + ` on the item counts; other text is ignored. A plain
   paragraph ends the current label.
5. **Inverses are mandatory.** If A depends on B, B must list A under
   Depended By; likewise for Supersedes / Superseded By. A missing inverse
   is an error and fails validation. Inherits / Inherited By mismatches are
   warnings.
6. **No cycles** in Depends On chains. Cycles are reported as warnings.
7. **Targets must exist.** A reference to an identifier with no file is an
   orphan warning.
8. **Front matter fallback.** A record without a relationship section may
   declare ` + "`" + `supersedes` + "`" + ` and ` + "`" + `superseded_by` + "`" + ` in YAML front matter (scalar or
   list). The section wins when both are present.

## Verdict

Validation passes when there are no errors. Warnings never fail a run.
`
