package marktex

// DefaultPreamble is the preamble emitted before the translated body
// when none is configured. It loads the packages the built-in handlers
// rely on (mdframed for Box blocks, graphicx for Image).
const DefaultPreamble = `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{graphicx}
\usepackage{mdframed}
`
