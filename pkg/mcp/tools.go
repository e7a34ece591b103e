package mcp

import "github.com/mark3labs/mcp-go/mcp"

const codeDescription = "Full source text of one single-file component (.vue)"

func cleanupComponentsTool() mcp.Tool {
	return mcp.NewTool("cleanup_components",
		mcp.WithDescription("Insert the import statements a component is missing for the capitalized tags it uses. Returns the rewritten code and the added statements."),
		mcp.WithString("code", mcp.Required(), mcp.Description(codeDescription)),
	)
}

func convertToTypeScriptTool() mcp.Tool {
	return mcp.NewTool("convert_to_typescript",
		mcp.WithDescription("Mark the script block as TypeScript and convert runtime defineProps/defineEmits declarations to their typed form. Returns the rewritten code."),
		mcp.WithString("code", mcp.Required(), mcp.Description(codeDescription)),
	)
}

func scanComponentsTool() mcp.Tool {
	return mcp.NewTool("scan_components",
		mcp.WithDescription("Report the component tags, script block and declaration blocks found in a component without changing it."),
		mcp.WithString("code", mcp.Required(), mcp.Description(codeDescription)),
	)
}
