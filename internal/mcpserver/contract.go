package mcpserver

// RecordSchemaContract describes the canonical record fields that LLM
// consumers should follow when creating records.
const RecordSchemaContract = `# DataHub Record Schema

Every record submitted to DataHub MUST follow this structure.

## Fields

| Field       | Type   | Required | Notes                                        |
|-------------|--------|----------|----------------------------------------------|
| name        | string | yes      | Display name; shown in every listing         |
| category    | string | no       | Free-form business category, e.g. "Sales"    |
| status      | string | no       | One of: active, pending, archived (default active) |
| date        | string | no       | Calendar date ` + "`" + `YYYY-MM-DD` + "`" + ` (default: today)  |
| value       | number | no       | Non-negative; rejected when below zero       |
| description | string | no       | Free text; searched together with name       |

## Rules

1. **` + "`" + `name` + "`" + ` is required.** Submissions without a name are rejected.
2. **Status** outside the three-value enumeration is rejected.
3. **Date** uses ISO calendar form ` + "`" + `YYYY-MM-DD` + "`" + `; other formats are rejected.
4. **Value** is a non-negative number. Use plain digits, e.g. ` + "`" + `15000` + "`" + ` or ` + "`" + `250.5` + "`" + `.
5. **Ids are assigned by the server.** Never supply one; the created id is
   returned by the create_record tool.

## File attachments

Attachments cannot be staged over MCP. Upload files through the HTTP API
(multipart POST /api/records with a "file" part). Accepted types: PDF, Word
(doc/docx), Excel (xls/xlsx). Stored files are served at ` + "`" + `/files/{key}` + "`" + `.

## Example

` + "```" + `json
{
  "name": "Q1 Sales Report",
  "category": "Sales",
  "status": "active",
  "date": "2024-01-15",
  "value": "15000",
  "description": "Quarterly sales performance data"
}
` + "```" + `
`
