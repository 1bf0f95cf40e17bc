package renderer

// Voxel chunk shaders: atlas-textured, simple directional lighting, an
// opacity uniform for LOD crossfades and translucent materials.

const chunkVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;

uniform mat4 uViewProj;
uniform vec3 uOrigin;

out vec3 vNormal;
out vec2 vUV;

void main() {
	vNormal = aNormal;
	vUV = aUV;
	gl_Position = uViewProj * vec4(aPosition + uOrigin, 1.0);
}
`

const chunkFragmentShader = `#version 410 core
in vec3 vNormal;
in vec2 vUV;

uniform sampler2D uAtlas;
uniform vec3 uLightDir;
uniform float uOpacity;

out vec4 fragColor;

void main() {
	vec4 tex = texture(uAtlas, vUV);
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	vec3 lit = tex.rgb * (0.45 + 0.55 * diffuse);
	fragColor = vec4(lit, tex.a * uOpacity);
}
`
